package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel represents one sellable model under a brand. Price is
// the current unit price; sales capture the price in force at sale
// time, so later edits never rewrite past totals.
type ProductModel struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,4);not null"`
	BrandID   uint            `json:"brand_id" gorm:"index;not null"`
	DealerID  uint            `json:"dealer_id" gorm:"index;not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
