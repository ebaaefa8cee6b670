package handler

import (
	"errors"
	"net/http"

	"dealer-service/internal/model"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DealerHandler serves the admin-only dealer account endpoints.
// Token issuance for dealers lives outside this service.
type DealerHandler struct {
	db *gorm.DB
}

// NewDealerHandler creates a dealer handler over db.
func NewDealerHandler(db *gorm.DB) *DealerHandler {
	return &DealerHandler{db: db}
}

// DealerRequest is the body of dealer creation/update requests.
type DealerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create handles creating a dealer account
func (h *DealerHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req DealerRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, username and password are required"})
	}

	var count int64
	h.db.Model(&model.Dealer{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		log.Warn("Dealer username already taken", zap.String("username", req.Username))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Dealer with this username already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create dealer"})
	}

	dealer := model.Dealer{Name: req.Name, Username: req.Username, Password: string(hashed)}
	if err := h.db.Create(&dealer).Error; err != nil {
		log.Error("Failed to create dealer", zap.String("username", req.Username), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create dealer"})
	}

	log.Info("Dealer created successfully", zap.Uint("dealer_id", dealer.ID), zap.String("username", dealer.Username))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Dealer created successfully",
		"dealer":  dealer,
	})
}

// List handles retrieving all dealers
func (h *DealerHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var dealers []model.Dealer
	if err := h.db.Find(&dealers).Error; err != nil {
		log.Error("Failed to list dealers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve dealers"})
	}
	return c.JSON(http.StatusOK, dealers)
}

// Update handles changing a dealer's name, username or password
func (h *DealerHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req DealerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var dealer model.Dealer
	if err := h.db.First(&dealer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Dealer not found"})
		}
		log.Error("Failed to load dealer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update dealer"})
	}

	if req.Username != "" && req.Username != dealer.Username {
		var count int64
		h.db.Model(&model.Dealer{}).Where("username = ? AND id != ?", req.Username, id).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Dealer with this username already exists"})
		}
		dealer.Username = req.Username
	}
	if req.Name != "" {
		dealer.Name = req.Name
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update dealer"})
		}
		dealer.Password = string(hashed)
	}

	if err := h.db.Save(&dealer).Error; err != nil {
		log.Error("Failed to update dealer", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update dealer"})
	}

	log.Info("Dealer updated successfully", zap.Uint("dealer_id", dealer.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Dealer updated successfully",
		"dealer":  dealer,
	})
}

// Delete handles removing a dealer account (soft delete)
func (h *DealerHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	result := h.db.Delete(&model.Dealer{}, id)
	if result.Error != nil {
		log.Error("Failed to delete dealer", zap.Uint("dealer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete dealer"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Dealer not found"})
	}

	log.Info("Dealer deleted successfully", zap.Uint("dealer_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Dealer deleted successfully"})
}
