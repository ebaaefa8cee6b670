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

// PerformanceHandler serves the sales performance reports.
type PerformanceHandler struct {
	perf *service.PerformanceService
}

// NewPerformanceHandler creates a performance handler over the given service.
func NewPerformanceHandler(perf *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{perf: perf}
}

// windowQueryFromRequest builds the window variant from query
// parameters: an explicit start_date/end_date pair wins over period.
func windowQueryFromRequest(c echo.Context) (service.WindowQuery, error) {
	startRaw := c.QueryParam("start_date")
	endRaw := c.QueryParam("end_date")
	if startRaw != "" && endRaw != "" {
		start, err := parseDate(startRaw)
		if err != nil {
			return nil, apperr.Validationf("invalid start_date")
		}
		end, err := parseDate(endRaw)
		if err != nil {
			return nil, apperr.Validationf("invalid end_date")
		}
		return service.ExplicitRange{Start: start, End: end}, nil
	}
	return service.NamedPeriod{Period: service.Period(c.QueryParam("period"))}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// Dealers handles the cross-tenant per-dealer report (admin only)
func (h *PerformanceHandler) Dealers(c echo.Context) error {
	return h.aggregate(c, service.ByDealer, service.Filter{})
}

// Brands handles the per-brand report, optionally filtered by dealer and brand
func (h *PerformanceHandler) Brands(c echo.Context) error {
	filter, err := filterFromRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return h.aggregate(c, service.ByBrand, filter)
}

// Models handles the per-model report for one dealer
func (h *PerformanceHandler) Models(c echo.Context) error {
	filter, err := filterFromRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if filter.DealerID == nil {
		// Dealer routes default to the caller's own identity.
		if dealerID, ok := middleware.GetDealerIDFromContext(c); ok {
			filter.DealerID = &dealerID
		}
	}
	return h.aggregate(c, service.ByModel, filter)
}

// BrandModels handles the per-(brand, model) report
func (h *PerformanceHandler) BrandModels(c echo.Context) error {
	filter, err := filterFromRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return h.aggregate(c, service.ByBrandModel, filter)
}

func filterFromRequest(c echo.Context) (service.Filter, error) {
	var filter service.Filter
	dealerID, err := optionalUintQuery(c, "dealer_id")
	if err != nil {
		return filter, err
	}
	brandID, err := optionalUintQuery(c, "brand_id")
	if err != nil {
		return filter, err
	}
	filter.DealerID = dealerID
	filter.BrandID = brandID
	return filter, nil
}

func (h *PerformanceHandler) aggregate(c echo.Context, dim service.Dimension, filter service.Filter) error {
	log := logger.FromContext(c)

	query, err := windowQueryFromRequest(c)
	if err != nil {
		log.Warn("Invalid window query", zap.Error(err))
		return errorJSON(c, err)
	}

	report, err := h.perf.AggregateSales(c.Request().Context(), dim, query, filter)
	if err != nil {
		log.Warn("Performance aggregation failed",
			zap.String("dimension", dim.String()),
			zap.Error(err))
		return errorJSON(c, err)
	}

	prometheus.RecordPerformanceQuery(dim.String())
	log.Info("Performance report computed",
		zap.String("dimension", dim.String()),
		zap.Int("groups", len(report.PerformanceData)))
	return c.JSON(http.StatusOK, report)
}
