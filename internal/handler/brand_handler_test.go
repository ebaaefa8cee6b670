package handler

import (
	"fmt"
	"net/http"
	"testing"

	"dealer-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandCreateAndConflict(t *testing.T) {
	db := setupTestDB(t)
	dealer, _, _ := seedCatalog(t, db)
	h := NewBrandHandler(db)

	c, rec := newContext(t, http.MethodPost, "/api/brands", `{"name":"BrandB"}`, dealer.ID)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(t, http.MethodPost, "/api/brands", `{"name":"BrandB"}`, dealer.ID)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBrandNameUniquePerDealerOnly(t *testing.T) {
	db := setupTestDB(t)
	dealer, _, _ := seedCatalog(t, db)
	other := model.Dealer{Name: "other", Username: "other", Password: "x"}
	require.NoError(t, db.Create(&other).Error)
	h := NewBrandHandler(db)

	// Same name under a different dealer is allowed.
	c, rec := newContext(t, http.MethodPost, "/api/brands", `{"name":"BrandA"}`, other.ID)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(t, http.MethodPost, "/api/brands", `{"name":"BrandA"}`, dealer.ID)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBrandDeleteCascadesModels(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, _ := seedCatalog(t, db)
	h := NewBrandHandler(db)

	c, rec := newContext(t, http.MethodDelete, fmt.Sprintf("/api/brands/%d", brand.ID), "", dealer.ID)
	c.SetParamNames("brandId")
	c.SetParamValues(fmt.Sprint(brand.ID))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var brandCount, modelCount int64
	db.Model(&model.Brand{}).Count(&brandCount)
	db.Model(&model.ProductModel{}).Count(&modelCount)
	assert.Equal(t, int64(0), brandCount)
	assert.Equal(t, int64(0), modelCount)
}

func TestBrandDeleteOtherDealerReturns404(t *testing.T) {
	db := setupTestDB(t)
	_, brand, _ := seedCatalog(t, db)
	other := model.Dealer{Name: "other", Username: "other", Password: "x"}
	require.NoError(t, db.Create(&other).Error)
	h := NewBrandHandler(db)

	c, rec := newContext(t, http.MethodDelete, fmt.Sprintf("/api/brands/%d", brand.ID), "", other.ID)
	c.SetParamNames("brandId")
	c.SetParamValues(fmt.Sprint(brand.ID))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModelCreateRequiresPositivePrice(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, _ := seedCatalog(t, db)
	h := NewModelHandler(db)

	c, rec := newContext(t, http.MethodPost, "/api/brands/1/models", `{"name":"ModelY","price":0}`, dealer.ID)
	c.SetParamNames("brandId")
	c.SetParamValues(fmt.Sprint(brand.ID))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelCreateAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	dealer, brand, _ := seedCatalog(t, db)
	h := NewModelHandler(db)

	body := `{"name":"ModelY","price":499.99}`
	c, rec := newContext(t, http.MethodPost, "/api/brands/1/models", body, dealer.ID)
	c.SetParamNames("brandId")
	c.SetParamValues(fmt.Sprint(brand.ID))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(t, http.MethodPost, "/api/brands/1/models", body, dealer.ID)
	c.SetParamNames("brandId")
	c.SetParamValues(fmt.Sprint(brand.ID))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
