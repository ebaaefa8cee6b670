package service

import (
	"context"
	"errors"
	"time"

	"dealer-service/internal/apperr"
	"dealer-service/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesService records sales against the stock ledger and reads the
// resulting sales ledger. Sales rows are append-only.
type SalesService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSalesService creates a sales service backed by db.
func NewSalesService(db *gorm.DB) *SalesService {
	return &SalesService{db: db, now: time.Now}
}

// SaleDetail is one sale joined with catalog names for display.
type SaleDetail struct {
	ID          uint            `json:"id"`
	BrandID     uint            `json:"brand_id"`
	BrandName   string          `json:"brand_name"`
	ModelID     uint            `json:"model_id"`
	ModelName   string          `json:"model_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	OccurredAt  time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// RecordSale sells quantity units of (brandID, modelID) from the
// dealer's stock. The availability check, stock decrement and sale
// insert run in one transaction; the decrement is conditional on the
// remaining quantity so concurrent sales against the same position
// cannot drive the total below zero.
func (s *SalesService) RecordSale(ctx context.Context, dealerID, brandID, modelID uint, quantity int, occurredAt *time.Time) (*model.SellProduct, error) {
	if brandID == 0 || modelID == 0 {
		return nil, apperr.Validationf("brand, model, and quantity are required")
	}
	if quantity <= 0 {
		return nil, apperr.Validationf("quantity must be a positive integer")
	}

	at := s.now()
	if occurredAt != nil {
		at = *occurredAt
	}

	var sale model.SellProduct
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var position model.StockProduct
		err := tx.Where("dealer_id = ? AND brand_id = ? AND model_id = ?", dealerID, brandID, modelID).
			First(&position).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("stock product not found")
		}
		if err != nil {
			return apperr.Wrap("lookup stock product", err)
		}
		if quantity > position.TotalQuantity {
			return apperr.InsufficientStockf("insufficient stock")
		}

		var pm model.ProductModel
		if err := tx.First(&pm, position.ModelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("brand or model not found")
			}
			return apperr.Wrap("lookup model", err)
		}

		// Conditional decrement. A concurrent sale that drained the
		// position between the read above and here affects zero rows,
		// which we report the same as the plain availability failure.
		res := tx.Model(&model.StockProduct{}).
			Where("id = ? AND total_quantity >= ?", position.ID, quantity).
			UpdateColumn("total_quantity", gorm.Expr("total_quantity - ?", quantity))
		if res.Error != nil {
			return apperr.Wrap("decrement stock product", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.InsufficientStockf("insufficient stock")
		}
		if err := tx.First(&position, position.ID).Error; err != nil {
			return apperr.Wrap("reload stock product", err)
		}

		record := model.StockRecord{
			StockProductID:       position.ID,
			Quantity:             -quantity,
			CurrentTotalQuantity: position.TotalQuantity,
			OccurredAt:           at,
		}
		if err := tx.Create(&record).Error; err != nil {
			return apperr.Wrap("append stock history", err)
		}

		sale = model.SellProduct{
			BrandID:     brandID,
			ModelID:     modelID,
			DealerID:    dealerID,
			Quantity:    quantity,
			OccurredAt:  at,
			TotalAmount: pm.Price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return apperr.Wrap("create sell product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns the dealer's sales joined with brand and model
// names, newest first.
func (s *SalesService) ListSales(ctx context.Context, dealerID uint) ([]SaleDetail, error) {
	var sales []SaleDetail
	err := s.db.WithContext(ctx).Table("sell_products").
		Select(`sell_products.id AS id,
			sell_products.brand_id AS brand_id,
			brands.name AS brand_name,
			sell_products.model_id AS model_id,
			product_models.name AS model_name,
			product_models.price AS price,
			sell_products.quantity AS quantity,
			sell_products.occurred_at AS occurred_at,
			sell_products.total_amount AS total_amount`).
		Joins("LEFT JOIN brands ON brands.id = sell_products.brand_id").
		Joins("LEFT JOIN product_models ON product_models.id = sell_products.model_id").
		Where("sell_products.dealer_id = ?", dealerID).
		Order("sell_products.occurred_at DESC").
		Scan(&sales).Error
	if err != nil {
		return nil, apperr.Wrap("list sell products", err)
	}
	if len(sales) == 0 {
		return nil, apperr.NotFoundf("no sell products found")
	}
	return sales, nil
}
