package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"dealer-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAddCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, pm := seedCatalog(t, db)
	h := NewStockHandler(service.NewStockService(db))

	body := fmt.Sprintf(`{"brand_id":%d,"model_id":%d,"quantity":10}`, brand.ID, pm.ID)
	c, rec := newContext(t, http.MethodPost, "/api/stock", body, dealer.ID)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(t, http.MethodPost, "/api/stock", body, dealer.ID)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		StockProduct struct {
			TotalQuantity int `json:"total_quantity"`
		} `json:"stock_product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 20, payload.StockProduct.TotalQuantity)
}

func TestStockAddRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, pm := seedCatalog(t, db)
	h := NewStockHandler(service.NewStockService(db))

	body := fmt.Sprintf(`{"brand_id":%d,"model_id":%d,"quantity":0}`, brand.ID, pm.ID)
	c, rec := newContext(t, http.MethodPost, "/api/stock", body, dealer.ID)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockAddUnknownModelReturns404(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, pm := seedCatalog(t, db)
	h := NewStockHandler(service.NewStockService(db))

	body := fmt.Sprintf(`{"brand_id":%d,"model_id":%d,"quantity":5}`, brand.ID, pm.ID+99)
	c, rec := newContext(t, http.MethodPost, "/api/stock", body, dealer.ID)
	require.NoError(t, h.Add(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStockListAndSummary(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, pm := seedCatalog(t, db)
	h := NewStockHandler(service.NewStockService(db))

	body := fmt.Sprintf(`{"brand_id":%d,"model_id":%d,"quantity":3}`, brand.ID, pm.ID)
	c, _ := newContext(t, http.MethodPost, "/api/stock", body, dealer.ID)
	require.NoError(t, h.Add(c))

	c, rec := newContext(t, http.MethodGet, "/api/stock", "", dealer.ID)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var aggregates []service.StockAggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aggregates))
	require.Len(t, aggregates, 1)
	assert.Equal(t, "BrandA", aggregates[0].BrandName)
	assert.Equal(t, 3, aggregates[0].TotalQuantity)

	c, rec = newContext(t, http.MethodGet, "/api/stock/summary", "", dealer.ID)
	require.NoError(t, h.Summary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary service.StockSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalQuantity)
}

func TestStockEndpointsRequireIdentity(t *testing.T) {
	db := setupTestDB(t)
	h := NewStockHandler(service.NewStockService(db))

	c, rec := newContext(t, http.MethodGet, "/api/stock", "", 0)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
