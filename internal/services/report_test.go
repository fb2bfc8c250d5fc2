package services

import (
	"testing"
	"time"

	"consignshop/internal/models"
)

func TestResolveDateRangeThisYear(t *testing.T) {
	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)
	start, end := ResolveDateRange(RangeThisYear, now)
	if start.Year() != 2025 || start.Month() != time.January || start.Day() != 1 {
		t.Fatalf("expected Jan 1 2025 got %v", start)
	}
	if !end.Equal(now) {
		t.Fatalf("expected end=now got %v", end)
	}
	// Empty and unknown values fall back to this-year.
	s2, e2 := ResolveDateRange("", now)
	if !s2.Equal(start) || !e2.Equal(end) {
		t.Fatalf("empty range must default to this-year")
	}
}

func TestResolveDateRangeLastMonthAcrossYearBoundary(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	start, end := ResolveDateRange(RangeLastMonth, now)
	if start.Year() != 2024 || start.Month() != time.December || start.Day() != 1 {
		t.Fatalf("expected Dec 1 2024 got %v", start)
	}
	if end.Year() != 2024 || end.Month() != time.December || end.Day() != 31 {
		t.Fatalf("expected end of Dec 2024 got %v", end)
	}
	if !end.Before(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end must stay inside the previous month, got %v", end)
	}
}

func TestConsignorCommissionsAggregation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReportService(db)

	ada := models.Consignor{Name: "Ada", Active: true}
	bob := models.Consignor{Name: "Bob", Active: true}
	if err := db.Create(&ada).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&bob).Error; err != nil {
		t.Fatal(err)
	}
	pa := models.Product{ConsignorID: ada.ID, SKU: "A1", Name: "Lamp", UnitPrice: 100, QuantityInStock: 9, ListedAt: time.Now()}
	pb := models.Product{ConsignorID: bob.ID, SKU: "B1", Name: "Chair", UnitPrice: 40, QuantityInStock: 9, ListedAt: time.Now()}
	if err := db.Create(&pa).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&pb).Error; err != nil {
		t.Fatal(err)
	}
	sale := models.Sale{InvoiceNumber: "INV-AGG", SaleDate: time.Now(), PaymentMethod: "cash", Total: 190}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatal(err)
	}
	items := []models.SaleItem{
		// Ada's rate changes between lines; the dashboard shows the last one.
		{SaleID: sale.ID, ProductID: pa.ID, Quantity: 1, UnitPrice: 100, LineTotal: 100, CommissionRate: 0.1, Commission: 10},
		{SaleID: sale.ID, ProductID: pa.ID, Quantity: 1, UnitPrice: 50, LineTotal: 50, CommissionRate: 0.2, Commission: 10},
		{SaleID: sale.ID, ProductID: pb.ID, Quantity: 1, UnitPrice: 40, LineTotal: 40, CommissionRate: 0.5, Commission: 20},
		// Orphan line with no product row; must be skipped, not fatal.
		{SaleID: sale.ID, ProductID: 9999, Quantity: 1, UnitPrice: 10, LineTotal: 10, CommissionRate: 0.1, Commission: 1},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatal(err)
	}

	rows, err := svc.ConsignorCommissions(RangeThisYear)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 consignor rows got %d", len(rows))
	}
	byName := map[string]ConsignorCommissionRow{}
	for _, r := range rows {
		byName[r.ConsignorName] = r
	}
	adaRow := byName["Ada"]
	if adaRow.TotalSales != 150 {
		t.Fatalf("expected Ada total 150 got %v", adaRow.TotalSales)
	}
	// 100*0.1 + 50*0.2
	if adaRow.CommissionAmount != 20 {
		t.Fatalf("expected Ada commission 20 got %v", adaRow.CommissionAmount)
	}
	if adaRow.CommissionRate != 0.2 {
		t.Fatalf("expected last-seen rate 0.2 got %v", adaRow.CommissionRate)
	}
	bobRow := byName["Bob"]
	if bobRow.TotalSales != 40 || bobRow.CommissionAmount != 20 {
		t.Fatalf("unexpected Bob row %+v", bobRow)
	}
}

func TestConsignorCommissionsWindowExcludesOldSales(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReportService(db)

	ada := models.Consignor{Name: "Ada", Active: true}
	if err := db.Create(&ada).Error; err != nil {
		t.Fatal(err)
	}
	p := models.Product{ConsignorID: ada.ID, SKU: "A1", Name: "Lamp", UnitPrice: 100, QuantityInStock: 9, ListedAt: time.Now()}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	oldSale := models.Sale{InvoiceNumber: "INV-OLD", SaleDate: time.Now().AddDate(-2, 0, 0), PaymentMethod: "cash", Total: 100}
	if err := db.Create(&oldSale).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.SaleItem{
		SaleID: oldSale.ID, ProductID: p.ID, Quantity: 1, UnitPrice: 100, LineTotal: 100, CommissionRate: 0.1, Commission: 10,
	}).Error; err != nil {
		t.Fatal(err)
	}

	rows, err := svc.ConsignorCommissions(RangeThisYear)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for sales outside window, got %+v", rows)
	}
}
