package handler

import (
	"net/http"
	"time"

	"dealer-service/internal/apperr"
	"dealer-service/internal/middleware"
	"dealer-service/internal/service"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SellHandler serves the sales ledger endpoints.
type SellHandler struct {
	sales *service.SalesService
}

// NewSellHandler creates a sell handler over the given service.
func NewSellHandler(sales *service.SalesService) *SellHandler {
	return &SellHandler{sales: sales}
}

// SellRequest is the body of a sale.
type SellRequest struct {
	BrandID  uint       `json:"brand_id"`
	ModelID  uint       `json:"model_id"`
	Quantity int        `json:"quantity"`
	Date     *time.Time `json:"date,omitempty"`
}

// Add handles recording a sale for the calling dealer
func (h *SellHandler) Add(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	var req SellRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Sale request",
		zap.Uint("dealer_id", dealerID),
		zap.Uint("brand_id", req.BrandID),
		zap.Uint("model_id", req.ModelID),
		zap.Int("quantity", req.Quantity))

	sale, err := h.sales.RecordSale(c.Request().Context(), dealerID, req.BrandID, req.ModelID, req.Quantity, req.Date)
	if err != nil {
		if apperr.KindOf(err) == apperr.InsufficientStock {
			prometheus.InsufficientStockCounter.Inc()
		}
		log.Warn("Sale rejected", zap.Error(err))
		return errorJSON(c, err)
	}

	prometheus.RecordSaleOperation("sale")
	log.Info("Sale recorded",
		zap.Uint("sell_product_id", sale.ID),
		zap.String("total_amount", sale.TotalAmount.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Sell product added successfully",
		"sell_product": sale,
	})
}

// List handles retrieving the dealer's sales with catalog names
func (h *SellHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	sales, err := h.sales.ListSales(c.Request().Context(), dealerID)
	if err != nil {
		log.Warn("Failed to list sales", zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Sales retrieved successfully", zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, sales)
}
