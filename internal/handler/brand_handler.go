package handler

import (
	"errors"
	"net/http"

	"dealer-service/internal/middleware"
	"dealer-service/internal/model"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BrandHandler serves the dealer-scoped brand catalog.
type BrandHandler struct {
	db *gorm.DB
}

// NewBrandHandler creates a brand handler over db.
func NewBrandHandler(db *gorm.DB) *BrandHandler {
	return &BrandHandler{db: db}
}

// BrandRequest is the body of brand creation/update requests.
type BrandRequest struct {
	Name string `json:"name"`
}

// Create handles adding a new brand for the calling dealer
func (h *BrandHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	var req BrandRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Brand name is required"})
	}

	var count int64
	h.db.Model(&model.Brand{}).Where("name = ? AND dealer_id = ?", req.Name, dealerID).Count(&count)
	if count > 0 {
		log.Warn("Brand with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Brand with this name already exists"})
	}

	brand := model.Brand{Name: req.Name, DealerID: dealerID}
	if err := h.db.Create(&brand).Error; err != nil {
		log.Error("Failed to create brand", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create brand"})
	}

	log.Info("Brand created successfully", zap.Uint("brand_id", brand.ID), zap.String("name", brand.Name))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Brand added successfully",
		"brand":   brand,
	})
}

// List handles retrieving all brands of the calling dealer
func (h *BrandHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	var brands []model.Brand
	if err := h.db.Where("dealer_id = ?", dealerID).Find(&brands).Error; err != nil {
		log.Error("Failed to list brands", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve brands"})
	}
	return c.JSON(http.StatusOK, brands)
}

// Update handles renaming a brand
func (h *BrandHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req BrandRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Brand name is required"})
	}

	var brand model.Brand
	if err := h.db.Where("id = ? AND dealer_id = ?", id, dealerID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
		}
		log.Error("Failed to load brand", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update brand"})
	}

	var count int64
	h.db.Model(&model.Brand{}).
		Where("name = ? AND dealer_id = ? AND id != ?", req.Name, dealerID, id).
		Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Another brand with this name already exists"})
	}

	brand.Name = req.Name
	if err := h.db.Save(&brand).Error; err != nil {
		log.Error("Failed to update brand", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update brand"})
	}

	log.Info("Brand updated successfully", zap.Uint("brand_id", brand.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Brand updated successfully",
		"brand":   brand,
	})
}

// Delete handles removing a brand and its models. Stock positions and
// sales referencing the brand are retained; reporting joins drop them.
func (h *BrandHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	id, err := parseUintParam(c, "brandId")
	if err != nil {
		return errorJSON(c, err)
	}

	var brand model.Brand
	if err := h.db.Where("id = ? AND dealer_id = ?", id, dealerID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Brand not found"})
		}
		log.Error("Failed to load brand", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete brand"})
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ? AND dealer_id = ?", id, dealerID).Delete(&model.ProductModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&brand).Error
	})
	if err != nil {
		log.Error("Failed to delete brand", zap.Uint("brand_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete brand"})
	}

	log.Info("Brand deleted successfully", zap.Uint("brand_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Brand and associated models deleted successfully",
		"brand":   brand,
	})
}
