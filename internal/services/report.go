package services

import (
	"log"
	"time"

	"consignshop/internal/apperr"
	"consignshop/internal/models"

	"gorm.io/gorm"
)

// ReportService serves the read-only dashboard aggregations.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

// Symbolic date ranges accepted by the dashboard.
const (
	RangeThisYear  = "this-year"
	RangeLastMonth = "last-month"
)

// ResolveDateRange turns a symbolic range into a concrete [start, end] window.
// Unknown or empty values fall back to this-year.
func ResolveDateRange(dateRange string, now time.Time) (time.Time, time.Time) {
	switch dateRange {
	case RangeLastMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start := firstOfThisMonth.AddDate(0, -1, 0)
		end := firstOfThisMonth.Add(-time.Nanosecond)
		return start, end
	default:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, now
	}
}

// ConsignorCommissionRow is one dashboard line. CommissionRate is the rate
// seen on the last processed sale line for the consignor, not an average; if
// a consignor's rate changed mid-period via differing agreements the displayed
// rate reflects only the final row.
type ConsignorCommissionRow struct {
	ConsignorID      uint    `json:"consignor_id"`
	ConsignorName    string  `json:"consignor_name"`
	TotalSales       float64 `json:"total_sales"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
}

// ConsignorCommissions aggregates sale lines in the window by consignor:
// total sales and total commission (line total x the rate on each line).
// The result order is unspecified.
func (s *ReportService) ConsignorCommissions(dateRange string) ([]ConsignorCommissionRow, error) {
	start, end := ResolveDateRange(dateRange, time.Now())

	var items []models.SaleItem
	err := s.DB.
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date <= ?", start, end).
		Preload("Product.Consignor").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to query sale items for dashboard", err)
	}

	byConsignor := map[uint]*ConsignorCommissionRow{}
	for _, it := range items {
		if it.Product.ID == 0 || it.Product.Consignor.ID == 0 {
			log.Printf("consignor commissions: skipping sale item %d with missing product/consignor join", it.ID)
			continue
		}
		c := it.Product.Consignor
		row, ok := byConsignor[c.ID]
		if !ok {
			row = &ConsignorCommissionRow{ConsignorID: c.ID, ConsignorName: c.Name}
			byConsignor[c.ID] = row
		}
		row.TotalSales += it.LineTotal
		row.CommissionAmount += it.LineTotal * it.CommissionRate
		row.CommissionRate = it.CommissionRate
	}

	out := make([]ConsignorCommissionRow, 0, len(byConsignor))
	for _, row := range byConsignor {
		out = append(out, *row)
	}
	return out, nil
}
