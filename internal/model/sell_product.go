package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellProduct is the immutable record of one sale. TotalAmount is
// quantity times the model's unit price at the time of sale. No update
// or delete path exists for these rows.
type SellProduct struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	BrandID     uint            `json:"brand_id" gorm:"index;not null"`
	ModelID     uint            `json:"model_id" gorm:"index;not null"`
	DealerID    uint            `json:"dealer_id" gorm:"index;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	OccurredAt  time.Time       `json:"date" gorm:"index;not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,4);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
