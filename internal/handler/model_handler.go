package handler

import (
	"errors"
	"net/http"

	"dealer-service/internal/middleware"
	"dealer-service/internal/model"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModelHandler serves the dealer-scoped model catalog under a brand.
type ModelHandler struct {
	db *gorm.DB
}

// NewModelHandler creates a model handler over db.
func NewModelHandler(db *gorm.DB) *ModelHandler {
	return &ModelHandler{db: db}
}

// ModelRequest is the body of model creation/update requests.
type ModelRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Create handles adding a new model under a brand
func (h *ModelHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	brandID, err := parseUintParam(c, "brandId")
	if err != nil {
		return errorJSON(c, err)
	}

	var req ModelRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || !req.Price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Model name and price are required"})
	}

	var brand model.Brand
	if err := h.db.Where("id = ? AND dealer_id = ?", brandID, dealerID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
		}
		log.Error("Failed to load brand", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create model"})
	}

	var count int64
	h.db.Model(&model.ProductModel{}).
		Where("name = ? AND brand_id = ? AND dealer_id = ?", req.Name, brandID, dealerID).
		Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Model with this name already exists under the specified brand"})
	}

	pm := model.ProductModel{
		Name:     req.Name,
		Price:    req.Price,
		BrandID:  brandID,
		DealerID: dealerID,
	}
	if err := h.db.Create(&pm).Error; err != nil {
		log.Error("Failed to create model", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create model"})
	}

	log.Info("Model created successfully",
		zap.Uint("model_id", pm.ID),
		zap.String("name", pm.Name),
		zap.String("price", pm.Price.String()))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Model added successfully",
		"model":   pm,
	})
}

// List handles retrieving all models under a brand
func (h *ModelHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	brandID, err := parseUintParam(c, "brandId")
	if err != nil {
		return errorJSON(c, err)
	}

	var models []model.ProductModel
	if err := h.db.Where("brand_id = ? AND dealer_id = ?", brandID, dealerID).Find(&models).Error; err != nil {
		log.Error("Failed to list models", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve models"})
	}
	return c.JSON(http.StatusOK, models)
}

// Update handles renaming/repricing a model. Past sales keep the
// totals computed from the price in force when they were recorded.
func (h *ModelHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	brandID, err := parseUintParam(c, "brandId")
	if err != nil {
		return errorJSON(c, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req ModelRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || !req.Price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Model name and price are required"})
	}

	var pm model.ProductModel
	if err := h.db.Where("id = ? AND brand_id = ? AND dealer_id = ?", id, brandID, dealerID).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Model not found"})
		}
		log.Error("Failed to load model", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update model"})
	}

	var count int64
	h.db.Model(&model.ProductModel{}).
		Where("name = ? AND brand_id = ? AND dealer_id = ? AND id != ?", req.Name, brandID, dealerID, id).
		Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Another model with this name already exists under the specified brand"})
	}

	pm.Name = req.Name
	pm.Price = req.Price
	if err := h.db.Save(&pm).Error; err != nil {
		log.Error("Failed to update model", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update model"})
	}

	log.Info("Model updated successfully", zap.Uint("model_id", pm.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Model updated successfully",
		"model":   pm,
	})
}

// Delete handles removing a model
func (h *ModelHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	id, err := parseUintParam(c, "modelId")
	if err != nil {
		return errorJSON(c, err)
	}

	var pm model.ProductModel
	if err := h.db.Where("id = ? AND dealer_id = ?", id, dealerID).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Model not found"})
		}
		log.Error("Failed to load model", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete model"})
	}

	if err := h.db.Delete(&pm).Error; err != nil {
		log.Error("Failed to delete model", zap.Uint("model_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete model"})
	}

	log.Info("Model deleted successfully", zap.Uint("model_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Model deleted successfully",
		"model":   pm,
	})
}
