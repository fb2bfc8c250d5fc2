package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"consignshop/internal/models"
	"consignshop/internal/services"
)

func TestSaleCreateAndReceiptPDF(t *testing.T) {
	db := setupHandlerTestDB(t)
	consignor, product := seedAgreementFixtures(t, db)
	if err := db.Create(&models.Agreement{
		ProductID: product.ID, ConsignorID: consignor.ID, CommissionRate: 0.2,
		UnsoldItemPolicy: models.PolicyKeep, EffectiveFrom: time.Now().AddDate(0, -1, 0),
	}).Error; err != nil {
		t.Fatalf("agreement: %v", err)
	}
	h := NewSaleHandler(db, services.NewSaleService(db))

	body := `{"payment_method":"cash","customer_name":"Walk-in","items":[{"product_id":` + strconv.Itoa(int(product.ID)) + `,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Sale
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.InvoiceNumber == "" || len(created.Items) != 1 {
		t.Fatalf("unexpected sale %+v", created)
	}

	// Receipt PDF
	pdfReq := httptest.NewRequest(http.MethodGet, "/sales/receipt?id="+strconv.Itoa(int(created.ID)), nil)
	pdfW := httptest.NewRecorder()
	h.Receipt(pdfW, pdfReq)
	if pdfW.Code != http.StatusOK {
		t.Fatalf("receipt expected 200 got %d body=%s", pdfW.Code, pdfW.Body.String())
	}
	if ct := pdfW.Header().Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		t.Fatalf("expected pdf content-type got %s", ct)
	}
	if pdfW.Body.Len() == 0 {
		t.Fatal("expected non-empty pdf body")
	}
}

func TestSaleReceiptNotFound(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewSaleHandler(db, services.NewSaleService(db))

	req := httptest.NewRequest(http.MethodGet, "/sales/receipt?id=42", nil)
	w := httptest.NewRecorder()
	h.Receipt(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestSaleListFiltersByDate(t *testing.T) {
	db := setupHandlerTestDB(t)
	if err := db.Create(&models.Sale{InvoiceNumber: "A", SaleDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), PaymentMethod: "cash", Total: 10}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Sale{InvoiceNumber: "B", SaleDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), PaymentMethod: "cash", Total: 20}).Error; err != nil {
		t.Fatal(err)
	}
	h := NewSaleHandler(db, services.NewSaleService(db))

	req := httptest.NewRequest(http.MethodGet, "/sales?from=2024-05-01", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var list struct {
		Items []models.Sale `json:"items"`
		Total int64         `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].InvoiceNumber != "B" {
		t.Fatalf("unexpected list %+v", list)
	}
}
