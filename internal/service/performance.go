package service

import (
	"context"
	"time"

	"dealer-service/internal/apperr"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Period names a calendar-aligned reporting window.
type Period string

// Supported reporting periods.
const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodQuarter  Period = "quarter"
	PeriodYear     Period = "year"
	PeriodLifetime Period = "lifetime"
)

// Window is a resolved [Start, End] range used to filter sales.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowQuery is either an explicit date range or a named period.
// The two cases are distinct types so callers cannot half-fill both.
type WindowQuery interface {
	windowQuery()
}

// ExplicitRange selects sales between Start and End verbatim.
type ExplicitRange struct {
	Start time.Time
	End   time.Time
}

func (ExplicitRange) windowQuery() {}

// NamedPeriod selects a calendar-aligned window containing now.
type NamedPeriod struct {
	Period Period
}

func (NamedPeriod) windowQuery() {}

// Dimension selects the grouping key of a performance report.
type Dimension int

// Grouping dimensions.
const (
	ByDealer Dimension = iota
	ByBrand
	ByModel
	ByBrandModel
)

func (d Dimension) String() string {
	switch d {
	case ByDealer:
		return "dealer"
	case ByBrand:
		return "brand"
	case ByModel:
		return "model"
	case ByBrandModel:
		return "brand_model"
	default:
		return "unknown"
	}
}

// Filter narrows a performance report to one dealer and/or brand.
type Filter struct {
	DealerID *uint
	BrandID  *uint
}

// PerformanceRow is one group of a performance report. Only the
// fields belonging to the report's dimension are populated.
type PerformanceRow struct {
	DealerID      uint            `json:"dealer_id,omitempty"`
	DealerName    string          `json:"dealer_name,omitempty"`
	BrandID       uint            `json:"brand_id,omitempty"`
	BrandName     string          `json:"brand_name,omitempty"`
	ModelID       uint            `json:"model_id,omitempty"`
	ModelName     string          `json:"model_name,omitempty"`
	ModelPrice    decimal.Decimal `json:"model_price,omitempty"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// OverallPerformance sums the returned groups of a report.
type OverallPerformance struct {
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// PerformanceReport is the result of one aggregation call.
type PerformanceReport struct {
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	PerformanceData []PerformanceRow    `json:"performance_data"`
	Overall         *OverallPerformance `json:"overall_performance,omitempty"`
}

// PerformanceService computes grouped sums over the sales ledger. It
// is read-only; it never touches the stock ledger.
type PerformanceService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPerformanceService creates a performance service backed by db.
func NewPerformanceService(db *gorm.DB) *PerformanceService {
	return &PerformanceService{db: db, now: time.Now}
}

// ResolveWindow turns a window query into a concrete [start, end]
// range. Explicit ranges pass through verbatim. Named periods align
// to calendar boundaries of the current date, with weeks starting on
// Monday; lifetime spans the Unix epoch through now.
func (s *PerformanceService) ResolveWindow(q WindowQuery) (Window, error) {
	switch v := q.(type) {
	case ExplicitRange:
		return Window{Start: v.Start, End: v.End}, nil
	case NamedPeriod:
		now := s.now()
		switch v.Period {
		case PeriodWeek:
			start := startOfWeek(now)
			return Window{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}, nil
		case PeriodMonth:
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, nil
		case PeriodQuarter:
			qm := time.Month((int(now.Month())-1)/3*3 + 1)
			start := time.Date(now.Year(), qm, 1, 0, 0, 0, 0, now.Location())
			return Window{Start: start, End: start.AddDate(0, 3, 0).Add(-time.Nanosecond)}, nil
		case PeriodYear:
			start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
			return Window{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}, nil
		case PeriodLifetime:
			return Window{Start: time.Unix(0, 0).UTC(), End: now}, nil
		default:
			return Window{}, apperr.Validationf("invalid period specified")
		}
	default:
		return Window{}, apperr.Validationf("invalid period specified")
	}
}

// startOfWeek returns midnight of the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// AggregateSales groups the sales inside the resolved window by the
// given dimension and sums quantity and amount per group. Rows are
// joined with catalog and dealer names; sales whose referenced entity
// was deleted are silently omitted. Groups sort by total amount
// descending, except brand-and-model reports which sort by quantity
// descending. Dealer- and brand-wide reports also carry overall
// totals across their groups.
func (s *PerformanceService) AggregateSales(ctx context.Context, dim Dimension, q WindowQuery, f Filter) (*PerformanceReport, error) {
	window, err := s.ResolveWindow(q)
	if err != nil {
		return nil, err
	}
	if dim == ByModel && f.DealerID == nil {
		return nil, apperr.Validationf("dealer id is required")
	}

	base := s.db.WithContext(ctx).Table("sell_products").
		Where("sell_products.occurred_at BETWEEN ? AND ?", window.Start, window.End)
	if f.DealerID != nil {
		base = base.Where("sell_products.dealer_id = ?", *f.DealerID)
	}
	if f.BrandID != nil {
		base = base.Where("sell_products.brand_id = ?", *f.BrandID)
	}

	sums := "SUM(sell_products.quantity) AS total_quantity, SUM(sell_products.total_amount) AS total_amount"
	switch dim {
	case ByDealer:
		base = base.
			Select("sell_products.dealer_id AS dealer_id, dealers.name AS dealer_name, " + sums).
			Joins("INNER JOIN dealers ON dealers.id = sell_products.dealer_id AND dealers.deleted_at IS NULL").
			Group("sell_products.dealer_id, dealers.name").
			Order("total_amount DESC")
	case ByBrand:
		base = base.
			Select("sell_products.brand_id AS brand_id, brands.name AS brand_name, " + sums).
			Joins("INNER JOIN brands ON brands.id = sell_products.brand_id").
			Group("sell_products.brand_id, brands.name").
			Order("total_amount DESC")
	case ByModel:
		base = base.
			Select("sell_products.model_id AS model_id, product_models.name AS model_name, product_models.price AS model_price, "+sums).
			Joins("INNER JOIN product_models ON product_models.id = sell_products.model_id").
			Group("sell_products.model_id, product_models.name, product_models.price").
			Order("total_amount DESC")
	case ByBrandModel:
		base = base.
			Select(`sell_products.brand_id AS brand_id, brands.name AS brand_name,
				sell_products.model_id AS model_id, product_models.name AS model_name, `+sums).
			Joins("INNER JOIN brands ON brands.id = sell_products.brand_id").
			Joins("INNER JOIN product_models ON product_models.id = sell_products.model_id").
			Group("sell_products.brand_id, brands.name, sell_products.model_id, product_models.name").
			Order("total_quantity DESC")
	default:
		return nil, apperr.Validationf("invalid dimension specified")
	}

	var rows []PerformanceRow
	if err := base.Scan(&rows).Error; err != nil {
		return nil, apperr.Wrap("aggregate sales", err)
	}

	report := &PerformanceReport{
		StartDate:       window.Start,
		EndDate:         window.End,
		PerformanceData: rows,
	}
	if dim == ByDealer || dim == ByBrand {
		overall := OverallPerformance{TotalAmount: decimal.Zero}
		for _, row := range rows {
			overall.TotalQuantity += row.TotalQuantity
			overall.TotalAmount = overall.TotalAmount.Add(row.TotalAmount)
		}
		report.Overall = &overall
	}
	return report, nil
}
