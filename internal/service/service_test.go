package service

import (
	"testing"

	"dealer-service/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Dealer{},
		&model.Brand{},
		&model.ProductModel{},
		&model.StockProduct{},
		&model.StockRecord{},
		&model.SellProduct{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func fromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func two() decimal.Decimal {
	return decimal.NewFromInt(2)
}

func seedDealer(t *testing.T, db *gorm.DB, name string) model.Dealer {
	t.Helper()
	dealer := model.Dealer{Name: name, Username: name, Password: "x"}
	if err := db.Create(&dealer).Error; err != nil {
		t.Fatalf("seed dealer: %v", err)
	}
	return dealer
}

func seedBrand(t *testing.T, db *gorm.DB, dealerID uint, name string) model.Brand {
	t.Helper()
	brand := model.Brand{Name: name, DealerID: dealerID}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}
	return brand
}

func seedModel(t *testing.T, db *gorm.DB, dealerID, brandID uint, name string, price string) model.ProductModel {
	t.Helper()
	pm := model.ProductModel{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		BrandID:  brandID,
		DealerID: dealerID,
	}
	if err := db.Create(&pm).Error; err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return pm
}
