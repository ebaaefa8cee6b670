package model

import "time"

// Brand represents a product brand owned by a dealer. Name uniqueness
// is scoped per owning dealer and enforced at the handler level.
type Brand struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;index:idx_brand_dealer_name"`
	DealerID  uint      `json:"dealer_id" gorm:"index:idx_brand_dealer_name;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
