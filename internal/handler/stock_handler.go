package handler

import (
	"net/http"
	"strconv"
	"time"

	"dealer-service/internal/middleware"
	"dealer-service/internal/service"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StockHandler serves the stock ledger endpoints.
type StockHandler struct {
	stock *service.StockService
}

// NewStockHandler creates a stock handler over the given service.
func NewStockHandler(stock *service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// StockRequest is the body of a stock receipt.
type StockRequest struct {
	BrandID  uint       `json:"brand_id"`
	ModelID  uint       `json:"model_id"`
	Quantity int        `json:"quantity"`
	Date     *time.Time `json:"date,omitempty"`
}

// Add handles booking a stock receipt for the calling dealer
func (h *StockHandler) Add(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	var req StockRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Stock receipt request",
		zap.Uint("dealer_id", dealerID),
		zap.Uint("brand_id", req.BrandID),
		zap.Uint("model_id", req.ModelID),
		zap.Int("quantity", req.Quantity))

	position, err := h.stock.RecordReceipt(c.Request().Context(), dealerID, req.BrandID, req.ModelID, req.Quantity, req.Date)
	if err != nil {
		log.Warn("Stock receipt rejected", zap.Error(err))
		return errorJSON(c, err)
	}

	prometheus.RecordStockOperation("receipt")
	prometheus.UpdateStockLevel(
		strconv.FormatUint(uint64(position.BrandID), 10),
		strconv.FormatUint(uint64(position.ModelID), 10),
		float64(position.TotalQuantity))

	log.Info("Stock receipt recorded",
		zap.Uint("stock_product_id", position.ID),
		zap.Int("total_quantity", position.TotalQuantity))

	// First receipt creates the position, later ones update it.
	if len(position.History) == 1 {
		return c.JSON(http.StatusCreated, echo.Map{
			"message":       "Stock product added successfully",
			"stock_product": position,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Stock product updated successfully",
		"stock_product": position,
	})
}

// List handles the dealer's aggregated stock overview
func (h *StockHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	brandID, err := optionalUintQuery(c, "brand_id")
	if err != nil {
		return errorJSON(c, err)
	}

	aggregates, err := h.stock.AggregateStock(c.Request().Context(), dealerID, brandID)
	if err != nil {
		log.Error("Failed to aggregate stock", zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Stock retrieved successfully", zap.Int("count", len(aggregates)))
	return c.JSON(http.StatusOK, aggregates)
}

// Summary handles the dealer-wide stock totals
func (h *StockHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	summary, err := h.stock.Summary(c.Request().Context(), dealerID)
	if err != nil {
		log.Error("Failed to compute stock summary", zap.Error(err))
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// ByBrand handles the per-model stock view, optionally filtered to one brand
func (h *StockHandler) ByBrand(c echo.Context) error {
	log := logger.FromContext(c)

	dealerID, ok := middleware.GetDealerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing dealer identity"})
	}

	brandID, err := optionalUintQuery(c, "brand_id")
	if err != nil {
		return errorJSON(c, err)
	}

	details, err := h.stock.StockByBrand(c.Request().Context(), dealerID, brandID)
	if err != nil {
		log.Error("Failed to aggregate stock by brand", zap.Error(err))
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, details)
}
