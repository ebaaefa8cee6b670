package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"dealer-service/internal/apperr"
	"dealer-service/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService owns the stock ledger: one StockProduct per
// (dealer, brand, model) triple with an append-only history of
// quantity deltas.
type StockService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStockService creates a stock service backed by db.
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db, now: time.Now}
}

// StockAggregate is one row of the dealer's stock overview.
type StockAggregate struct {
	BrandID         uint                `json:"brand_id"`
	ModelID         uint                `json:"model_id"`
	BrandName       string              `json:"brand_name"`
	ModelName       string              `json:"model_name"`
	TotalQuantity   int                 `json:"total_quantity"`
	Price           decimal.Decimal     `json:"price"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	History         []model.StockRecord `json:"stock_history"`
	RecentStockDate time.Time           `json:"recent_stock_date"`
}

// StockSummary totals a dealer's stock across all positions.
type StockSummary struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// StockModelDetail is one row of the per-model stock view.
type StockModelDetail struct {
	ModelID       uint            `json:"model_id"`
	ModelName     string          `json:"model_name"`
	BrandID       uint            `json:"brand_id"`
	BrandName     string          `json:"brand_name"`
	TotalQuantity int             `json:"total_quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// RecordReceipt books quantity units of (brandID, modelID) into the
// dealer's stock. The position is created on first receipt; subsequent
// receipts increment the running total and append a history entry
// snapshotting the new total.
func (s *StockService) RecordReceipt(ctx context.Context, dealerID, brandID, modelID uint, quantity int, occurredAt *time.Time) (*model.StockProduct, error) {
	if brandID == 0 || modelID == 0 {
		return nil, apperr.Validationf("brand, model, and quantity are required")
	}
	if quantity <= 0 {
		return nil, apperr.Validationf("quantity must be a positive integer")
	}

	var brand model.Brand
	if err := s.db.WithContext(ctx).First(&brand, brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("brand or model not found")
		}
		return nil, apperr.Wrap("lookup brand", err)
	}
	var pm model.ProductModel
	if err := s.db.WithContext(ctx).First(&pm, modelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("brand or model not found")
		}
		return nil, apperr.Wrap("lookup model", err)
	}

	at := s.now()
	if occurredAt != nil {
		at = *occurredAt
	}

	var position model.StockProduct
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("dealer_id = ? AND brand_id = ? AND model_id = ?", dealerID, brandID, modelID).
			First(&position).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			position = model.StockProduct{
				BrandID:       brandID,
				ModelID:       modelID,
				DealerID:      dealerID,
				TotalQuantity: quantity,
				History: []model.StockRecord{{
					Quantity:             quantity,
					CurrentTotalQuantity: quantity,
					OccurredAt:           at,
				}},
			}
			if err := tx.Create(&position).Error; err != nil {
				return apperr.Wrap("create stock product", err)
			}
			return nil
		case err != nil:
			return apperr.Wrap("lookup stock product", err)
		}

		// Increment at the row so concurrent receipts serialize in the
		// database rather than clobbering each other's read.
		if err := tx.Model(&model.StockProduct{}).Where("id = ?", position.ID).
			UpdateColumn("total_quantity", gorm.Expr("total_quantity + ?", quantity)).Error; err != nil {
			return apperr.Wrap("increment stock product", err)
		}
		if err := tx.First(&position, position.ID).Error; err != nil {
			return apperr.Wrap("reload stock product", err)
		}
		record := model.StockRecord{
			StockProductID:       position.ID,
			Quantity:             quantity,
			CurrentTotalQuantity: position.TotalQuantity,
			OccurredAt:           at,
		}
		if err := tx.Create(&record).Error; err != nil {
			return apperr.Wrap("append stock history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("stock_records.id ASC")
	}).First(&position, position.ID).Error; err != nil {
		return nil, apperr.Wrap("reload stock product", err)
	}
	return &position, nil
}

// AggregateStock returns the dealer's stock positions joined with
// catalog names, optionally filtered to one brand, ordered by the most
// recent history entry, newest first.
func (s *StockService) AggregateStock(ctx context.Context, dealerID uint, brandID *uint) ([]StockAggregate, error) {
	query := s.db.WithContext(ctx).Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("stock_records.id ASC")
	}).Where("dealer_id = ?", dealerID)
	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	}

	var positions []model.StockProduct
	if err := query.Find(&positions).Error; err != nil {
		return nil, apperr.Wrap("list stock products", err)
	}

	brandNames, err := s.brandNames(ctx, positions)
	if err != nil {
		return nil, err
	}
	models, err := s.modelsByID(ctx, positions)
	if err != nil {
		return nil, err
	}

	aggregates := make([]StockAggregate, 0, len(positions))
	for _, p := range positions {
		agg := StockAggregate{
			BrandID:       p.BrandID,
			ModelID:       p.ModelID,
			BrandName:     brandNames[p.BrandID],
			TotalQuantity: p.TotalQuantity,
			History:       p.History,
		}
		if pm, ok := models[p.ModelID]; ok {
			agg.ModelName = pm.Name
			agg.Price = pm.Price
			agg.TotalAmount = pm.Price.Mul(decimal.NewFromInt(int64(p.TotalQuantity)))
		}
		for _, rec := range p.History {
			if rec.OccurredAt.After(agg.RecentStockDate) {
				agg.RecentStockDate = rec.OccurredAt
			}
		}
		aggregates = append(aggregates, agg)
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].RecentStockDate.After(aggregates[j].RecentStockDate)
	})
	return aggregates, nil
}

// Summary returns the dealer's total stock quantity and total stock
// value (quantity times current model price, summed over positions).
func (s *StockService) Summary(ctx context.Context, dealerID uint) (StockSummary, error) {
	var summary StockSummary

	var totalQuantity int64
	if err := s.db.WithContext(ctx).Model(&model.StockProduct{}).
		Where("dealer_id = ?", dealerID).
		Select("COALESCE(SUM(total_quantity), 0)").
		Scan(&totalQuantity).Error; err != nil {
		return summary, apperr.Wrap("sum stock quantity", err)
	}
	summary.TotalQuantity = int(totalQuantity)

	row := struct {
		TotalAmount decimal.Decimal
	}{}
	if err := s.db.WithContext(ctx).Table("stock_products").
		Select("COALESCE(SUM(stock_products.total_quantity * product_models.price), 0) AS total_amount").
		Joins("LEFT JOIN product_models ON product_models.id = stock_products.model_id").
		Where("stock_products.dealer_id = ?", dealerID).
		Scan(&row).Error; err != nil {
		return summary, apperr.Wrap("sum stock amount", err)
	}
	summary.TotalAmount = row.TotalAmount
	return summary, nil
}

// StockByBrand returns one row per stocked model with catalog names
// and value, filtered to one brand when brandID is set, sorted by
// model name.
func (s *StockService) StockByBrand(ctx context.Context, dealerID uint, brandID *uint) ([]StockModelDetail, error) {
	query := s.db.WithContext(ctx).Table("stock_products").
		Select(`stock_products.model_id AS model_id,
			product_models.name AS model_name,
			stock_products.brand_id AS brand_id,
			brands.name AS brand_name,
			stock_products.total_quantity AS total_quantity,
			product_models.price AS price,
			(stock_products.total_quantity * product_models.price) AS total_amount`).
		Joins("LEFT JOIN product_models ON product_models.id = stock_products.model_id").
		Joins("LEFT JOIN brands ON brands.id = stock_products.brand_id").
		Where("stock_products.dealer_id = ?", dealerID).
		Order("model_name ASC")
	if brandID != nil {
		query = query.Where("stock_products.brand_id = ?", *brandID)
	}

	var details []StockModelDetail
	if err := query.Scan(&details).Error; err != nil {
		return nil, apperr.Wrap("aggregate stock by brand", err)
	}
	return details, nil
}

func (s *StockService) brandNames(ctx context.Context, positions []model.StockProduct) (map[uint]string, error) {
	ids := make([]uint, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.BrandID)
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var brands []model.Brand
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&brands).Error; err != nil {
		return nil, apperr.Wrap("lookup brands", err)
	}
	for _, b := range brands {
		names[b.ID] = b.Name
	}
	return names, nil
}

func (s *StockService) modelsByID(ctx context.Context, positions []model.StockProduct) (map[uint]model.ProductModel, error) {
	ids := make([]uint, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.ModelID)
	}
	byID := make(map[uint]model.ProductModel, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var models []model.ProductModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperr.Wrap("lookup models", err)
	}
	for _, m := range models {
		byID[m.ID] = m
	}
	return byID, nil
}
