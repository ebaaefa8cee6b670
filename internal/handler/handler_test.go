package handler

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"dealer-service/internal/model"
	"dealer-service/pkg/config"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	// Metric vectors must exist before handlers record into them.
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func seedCatalog(t *testing.T, db *gorm.DB) (model.Dealer, model.Brand, model.ProductModel) {
	t.Helper()
	dealer := model.Dealer{Name: "dealer1", Username: "dealer1", Password: "x"}
	if err := db.Create(&dealer).Error; err != nil {
		t.Fatalf("seed dealer: %v", err)
	}
	brand := model.Brand{Name: "BrandA", DealerID: dealer.ID}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}
	pm := model.ProductModel{Name: "ModelX", Price: decimal.RequireFromString("100"), BrandID: brand.ID, DealerID: dealer.ID}
	if err := db.Create(&pm).Error; err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return dealer, brand, pm
}

// newContext builds an echo context carrying the dealer identity the
// auth middleware would have set.
func newContext(t *testing.T, method, target, body string, dealerID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if dealerID != 0 {
		c.Set("dealer_id", dealerID)
	}
	return c, rec
}
