package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	dbpkg "consignshop/internal/db"
	"consignshop/internal/models"
	"consignshop/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedSaleForCommission creates a consignor with one January 2024 sale of two
// lines (100+50 total, 10+5 commission).
func seedSaleForCommission(t *testing.T, db *gorm.DB) models.Consignor {
	t.Helper()
	consignor := models.Consignor{Name: "Ada", Active: true}
	if err := db.Create(&consignor).Error; err != nil {
		t.Fatalf("consignor: %v", err)
	}
	product := models.Product{ConsignorID: consignor.ID, SKU: "SKU1", Name: "Lamp", UnitPrice: 50, QuantityInStock: 5, ListedAt: time.Now()}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	sale := models.Sale{InvoiceNumber: "INV-" + t.Name(), SaleDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), PaymentMethod: "cash", Total: 150}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("sale: %v", err)
	}
	items := []models.SaleItem{
		{SaleID: sale.ID, ProductID: product.ID, Quantity: 2, UnitPrice: 50, LineTotal: 100, CommissionRate: 0.1, Commission: 10},
		{SaleID: sale.ID, ProductID: product.ID, Quantity: 1, UnitPrice: 50, LineTotal: 50, CommissionRate: 0.1, Commission: 5},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("items: %v", err)
	}
	return consignor
}

func TestCommissionReportEndpoint(t *testing.T) {
	db := setupHandlerTestDB(t)
	consignor := seedSaleForCommission(t, db)
	h := NewCommissionHandler(services.NewCommissionService(db))

	url := "/commissions/report?consignor_id=" + strconv.Itoa(int(consignor.ID)) +
		"&period_start=2024-01-01&period_end=2024-01-31"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	h.Report(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var report struct {
		NoSales  bool `json:"no_sales"`
		Tracking *struct {
			ID              uint    `json:"id"`
			TotalSales      float64 `json:"total_sales"`
			TotalCommission float64 `json:"total_commission"`
			Status          string  `json:"status"`
		} `json:"tracking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.NoSales || report.Tracking == nil {
		t.Fatalf("expected tracking in response: %s", w.Body.String())
	}
	if report.Tracking.TotalSales != 150 || report.Tracking.TotalCommission != 15 || report.Tracking.Status != "pending" {
		t.Fatalf("unexpected report: %+v", report.Tracking)
	}
}

func TestCommissionReportEndpointValidation(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewCommissionHandler(services.NewCommissionService(db))

	req := httptest.NewRequest(http.MethodGet, "/commissions/report?period_start=2024-01-01", nil)
	w := httptest.NewRecorder()
	h.Report(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestCommissionPaymentEndpointLifecycle(t *testing.T) {
	db := setupHandlerTestDB(t)
	consignor := seedSaleForCommission(t, db)
	svc := services.NewCommissionService(db)
	h := NewCommissionHandler(svc)

	report, err := svc.GetOrCreateReport(consignor.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	id := int(report.Tracking.ID)

	// Verify says payable.
	vReq := httptest.NewRequest(http.MethodGet, "/commissions/verify?id="+strconv.Itoa(id), nil)
	vW := httptest.NewRecorder()
	h.Verify(vW, vReq)
	if vW.Code != http.StatusOK {
		t.Fatalf("verify expected 200 got %d body=%s", vW.Code, vW.Body.String())
	}

	// Pay the exact amount.
	body := `{"commission_tracking_id":` + strconv.Itoa(id) + `,"amount":15,"payment_date":"2024-02-05","payment_method":"transfer","bank_name":"First National","account_last_four":"4711"}`
	pReq := httptest.NewRequest(http.MethodPost, "/commissions/payment", strings.NewReader(body))
	pReq.Header.Set("Content-Type", "application/json")
	pW := httptest.NewRecorder()
	h.Payment(pW, pReq)
	if pW.Code != http.StatusCreated {
		t.Fatalf("payment expected 201 got %d body=%s", pW.Code, pW.Body.String())
	}

	// Paying again conflicts.
	p2Req := httptest.NewRequest(http.MethodPost, "/commissions/payment", strings.NewReader(body))
	p2W := httptest.NewRecorder()
	h.Payment(p2W, p2Req)
	if p2W.Code != http.StatusConflict {
		t.Fatalf("second payment expected 409 got %d body=%s", p2W.Code, p2W.Body.String())
	}
	if !strings.Contains(p2W.Body.String(), "already paid") {
		t.Fatalf("expected already-paid message, got %s", p2W.Body.String())
	}

	// Details now carries the payment.
	dReq := httptest.NewRequest(http.MethodGet, "/commissions/details?id="+strconv.Itoa(id), nil)
	dW := httptest.NewRecorder()
	h.Details(dW, dReq)
	if dW.Code != http.StatusOK {
		t.Fatalf("details expected 200 got %d", dW.Code)
	}
	var details models.CommissionTracking
	if err := json.Unmarshal(dW.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.Status != models.CommissionPaid || len(details.Payments) != 1 {
		t.Fatalf("unexpected details status=%s payments=%d", details.Status, len(details.Payments))
	}
}

func TestCommissionPaymentEndpointAmountMismatch(t *testing.T) {
	db := setupHandlerTestDB(t)
	consignor := seedSaleForCommission(t, db)
	svc := services.NewCommissionService(db)
	h := NewCommissionHandler(svc)

	report, err := svc.GetOrCreateReport(consignor.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	body := `{"commission_tracking_id":` + strconv.Itoa(int(report.Tracking.ID)) + `,"amount":14.99,"payment_date":"2024-02-05","payment_method":"transfer"}`
	req := httptest.NewRequest(http.MethodPost, "/commissions/payment", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Payment(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "14.99") || !strings.Contains(w.Body.String(), "15") {
		t.Fatalf("mismatch response must name both amounts: %s", w.Body.String())
	}
}

func TestCommissionVerifyNotFound(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewCommissionHandler(services.NewCommissionService(db))

	req := httptest.NewRequest(http.MethodGet, "/commissions/verify?id=999", nil)
	w := httptest.NewRecorder()
	h.Verify(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestCommissionUnpaidAndPaidLists(t *testing.T) {
	db := setupHandlerTestDB(t)
	consignor := seedSaleForCommission(t, db)
	svc := services.NewCommissionService(db)
	h := NewCommissionHandler(svc)

	report, err := svc.GetOrCreateReport(consignor.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	uW := httptest.NewRecorder()
	h.Unpaid(uW, httptest.NewRequest(http.MethodGet, "/commissions/unpaid", nil))
	if uW.Code != http.StatusOK || !strings.Contains(uW.Body.String(), `"total":1`) {
		t.Fatalf("unpaid expected 1 row got %d %s", uW.Code, uW.Body.String())
	}

	if _, err := svc.RecordPayment(services.PaymentInput{
		TrackingID: report.Tracking.ID, Amount: 15, PaymentDate: "2024-02-05", PaymentMethod: "cash",
	}); err != nil {
		t.Fatalf("pay: %v", err)
	}

	pW := httptest.NewRecorder()
	h.Paid(pW, httptest.NewRequest(http.MethodGet, "/commissions/paid", nil))
	if pW.Code != http.StatusOK || !strings.Contains(pW.Body.String(), `"total":1`) {
		t.Fatalf("paid expected 1 row got %d %s", pW.Code, pW.Body.String())
	}
}
