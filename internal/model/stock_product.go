package model

import "time"

// StockProduct is the quantity-on-hand ledger for one
// (dealer, brand, model) triple. TotalQuantity never goes below zero;
// History is append-only and its last entry's CurrentTotalQuantity
// always equals TotalQuantity.
type StockProduct struct {
	ID            uint          `json:"id" gorm:"primarykey"`
	BrandID       uint          `json:"brand_id" gorm:"uniqueIndex:idx_stock_dealer_brand_model;not null"`
	ModelID       uint          `json:"model_id" gorm:"uniqueIndex:idx_stock_dealer_brand_model;not null"`
	DealerID      uint          `json:"dealer_id" gorm:"uniqueIndex:idx_stock_dealer_brand_model;not null"`
	TotalQuantity int           `json:"total_quantity" gorm:"not null;default:0"`
	History       []StockRecord `json:"stock_history" gorm:"foreignKey:StockProductID"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// StockRecord is one immutable quantity-delta entry in a stock
// product's history. Quantity is positive for receipts and negative
// for sales; CurrentTotalQuantity snapshots the running total after
// the delta was applied.
type StockRecord struct {
	ID                   uint      `json:"id" gorm:"primarykey"`
	StockProductID       uint      `json:"-" gorm:"index;not null"`
	Quantity             int       `json:"quantity" gorm:"not null"`
	CurrentTotalQuantity int       `json:"current_total_quantity" gorm:"not null"`
	OccurredAt           time.Time `json:"date" gorm:"not null"`
}
