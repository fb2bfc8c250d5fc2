package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"consignshop/internal/httpx"
	"consignshop/internal/models"
	"consignshop/internal/pdf"
	"consignshop/internal/services"

	"gorm.io/gorm"
)

type SaleHandler struct {
	DB  *gorm.DB
	Svc *services.SaleService
}

func NewSaleHandler(db *gorm.DB, svc *services.SaleService) *SaleHandler {
	return &SaleHandler{DB: db, Svc: svc}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Sale{})
	if from := r.URL.Query().Get("from"); from != "" {
		dbq = dbq.Where("sale_date >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		dbq = dbq.Where("sale_date <= ?", to)
	}
	var total int64
	dbq.Count(&total)
	var sales []models.Sale
	if err := dbq.Preload("Items.Product").Order("id desc").Limit(limit).Offset(offset).Find(&sales).Error; err != nil {
		writeStoreError(w, r, err, "failed to list sales")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sales, "total": total, "limit": limit, "offset": offset})
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.SaleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	sale, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

// Receipt: GET /sales/receipt?id= streams the sale as a PDF.
func (h *SaleHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	var sale models.Sale
	if err := h.DB.Preload("Items.Product").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not found", nil)
			return
		}
		writeStoreError(w, r, err, "failed to load sale")
		return
	}

	items := make([]pdf.ReceiptItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, pdf.ReceiptItem{
			Description: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	data, err := pdf.Receipt(pdf.ReceiptData{
		ShopName:      "Consignment Shop",
		InvoiceNumber: sale.InvoiceNumber,
		Date:          sale.SaleDate.Format("2006-01-02"),
		PaymentMethod: sale.PaymentMethod,
		CustomerName:  sale.CustomerName,
		Items:         items,
		Total:         sale.Total,
	})
	if err != nil {
		writeStoreError(w, r, err, "pdf generation failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"receipt-"+sale.InvoiceNumber+".pdf\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
