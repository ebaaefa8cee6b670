package service

import (
	"context"
	"testing"

	"dealer-service/internal/apperr"
	"dealer-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecordSaleDecrementsStockAndAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")
	brand := seedBrand(t, db, dealer.ID, "BrandA")
	pm := seedModel(t, db, dealer.ID, brand.ID, "ModelX", "250.00")

	stock := NewStockService(db)
	sales := NewSalesService(db)

	_, err := stock.RecordReceipt(context.Background(), dealer.ID, brand.ID, pm.ID, 10, nil)
	require.NoError(t, err)

	sale, err := sales.RecordSale(context.Background(), dealer.ID, brand.ID, pm.ID, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, sale.Quantity)
	// 4 * 250.00
	assert.True(t, sale.TotalAmount.Equal(fromString(t, "1000")), "got %s", sale.TotalAmount)

	var position model.StockProduct
	require.NoError(t, db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("stock_records.id ASC")
	}).Where("dealer_id = ?", dealer.ID).First(&position).Error)

	assert.Equal(t, 6, position.TotalQuantity)
	require.Len(t, position.History, 2)
	assert.Equal(t, 10, position.History[0].Quantity)
	assert.Equal(t, 10, position.History[0].CurrentTotalQuantity)
	assert.Equal(t, -4, position.History[1].Quantity)
	assert.Equal(t, 6, position.History[1].CurrentTotalQuantity)
}

func TestRecordSaleInsufficientStockLeavesStateUnchanged(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")
	brand := seedBrand(t, db, dealer.ID, "BrandA")
	pm := seedModel(t, db, dealer.ID, brand.ID, "ModelX", "100")

	stock := NewStockService(db)
	sales := NewSalesService(db)

	_, err := stock.RecordReceipt(context.Background(), dealer.ID, brand.ID, pm.ID, 6, nil)
	require.NoError(t, err)

	_, err = sales.RecordSale(context.Background(), dealer.ID, brand.ID, pm.ID, 11, nil)
	assert.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))

	var position model.StockProduct
	require.NoError(t, db.Preload("History").Where("dealer_id = ?", dealer.ID).First(&position).Error)
	assert.Equal(t, 6, position.TotalQuantity)
	assert.Len(t, position.History, 1)

	var saleCount int64
	db.Model(&model.SellProduct{}).Count(&saleCount)
	assert.Equal(t, int64(0), saleCount)
}

func TestRecordSaleWithoutPosition(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")
	brand := seedBrand(t, db, dealer.ID, "BrandA")
	pm := seedModel(t, db, dealer.ID, brand.ID, "ModelX", "100")

	sales := NewSalesService(db)
	_, err := sales.RecordSale(context.Background(), dealer.ID, brand.ID, pm.ID, 1, nil)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestRecordSaleValidation(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")

	sales := NewSalesService(db)
	_, err := sales.RecordSale(context.Background(), dealer.ID, 1, 1, 0, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	_, err = sales.RecordSale(context.Background(), dealer.ID, 0, 1, 1, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

// Draining the position across several sales must never let the total
// go negative, and each history entry must snapshot the running total.
func TestStockNonNegativityAcrossSequences(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")
	brand := seedBrand(t, db, dealer.ID, "BrandA")
	pm := seedModel(t, db, dealer.ID, brand.ID, "ModelX", "10")

	stock := NewStockService(db)
	sales := NewSalesService(db)
	ctx := context.Background()

	steps := []struct {
		receipt bool
		qty     int
		wantErr bool
	}{
		{receipt: true, qty: 5},
		{receipt: false, qty: 3},
		{receipt: false, qty: 3, wantErr: true},
		{receipt: true, qty: 1},
		{receipt: false, qty: 3},
		{receipt: false, qty: 1, wantErr: true},
	}

	for i, step := range steps {
		var err error
		if step.receipt {
			_, err = stock.RecordReceipt(ctx, dealer.ID, brand.ID, pm.ID, step.qty, nil)
		} else {
			_, err = sales.RecordSale(ctx, dealer.ID, brand.ID, pm.ID, step.qty, nil)
		}
		if step.wantErr {
			require.Error(t, err, "step %d", i)
		} else {
			require.NoError(t, err, "step %d", i)
		}

		var position model.StockProduct
		require.NoError(t, db.Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("stock_records.id ASC")
		}).Where("dealer_id = ?", dealer.ID).First(&position).Error)

		assert.GreaterOrEqual(t, position.TotalQuantity, 0, "step %d", i)
		last := position.History[len(position.History)-1]
		assert.Equal(t, position.TotalQuantity, last.CurrentTotalQuantity, "step %d", i)
	}
}

func TestListSalesJoinsCatalogNames(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")
	brand := seedBrand(t, db, dealer.ID, "BrandA")
	pm := seedModel(t, db, dealer.ID, brand.ID, "ModelX", "100")

	stock := NewStockService(db)
	sales := NewSalesService(db)

	_, err := stock.RecordReceipt(context.Background(), dealer.ID, brand.ID, pm.ID, 5, nil)
	require.NoError(t, err)
	_, err = sales.RecordSale(context.Background(), dealer.ID, brand.ID, pm.ID, 2, nil)
	require.NoError(t, err)

	list, err := sales.ListSales(context.Background(), dealer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BrandA", list[0].BrandName)
	assert.Equal(t, "ModelX", list[0].ModelName)
	assert.Equal(t, 2, list[0].Quantity)
	assert.True(t, list[0].TotalAmount.Equal(fromString(t, "200")))
}

func TestListSalesEmpty(t *testing.T) {
	db := setupTestDB(t)
	dealer := seedDealer(t, db, "dealer1")

	sales := NewSalesService(db)
	_, err := sales.ListSales(context.Background(), dealer.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
