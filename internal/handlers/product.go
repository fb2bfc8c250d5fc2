package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"consignshop/internal/httpx"
	"consignshop/internal/models"
	"consignshop/internal/validation"

	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	dbq := h.DB.Model(&models.Product{})
	if cid := r.URL.Query().Get("consignor_id"); cid != "" {
		dbq = dbq.Where("consignor_id = ?", cid)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + strings.ToLower(searchSanitizer.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(sku) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var products []models.Product
	if err := dbq.Preload("Consignor").Order("id desc").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		writeStoreError(w, r, err, "failed to list products")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": limit, "offset": offset})
}

type productInput struct {
	ConsignorID     uint    `json:"consignor_id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	UnitPrice       float64 `json:"unit_price"`
	QuantityInStock int     `json:"quantity_in_stock"`
	ListedAt        string  `json:"listed_at"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("consignor_id", in.ConsignorID, v)
	validation.Required("sku", in.SKU, v)
	validation.Required("name", in.Name, v)
	validation.PositiveFloat("unit_price", in.UnitPrice, v)
	listedAt := time.Now()
	if in.ListedAt != "" {
		listedAt = validation.Date("listed_at", in.ListedAt, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	var consignor models.Consignor
	if err := h.DB.First(&consignor, in.ConsignorID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown consignor", nil)
		return
	}
	qty := in.QuantityInStock
	if qty <= 0 {
		qty = 1
	}
	p := models.Product{
		ConsignorID:     in.ConsignorID,
		SKU:             strings.TrimSpace(in.SKU),
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Category:        in.Category,
		UnitPrice:       in.UnitPrice,
		QuantityInStock: qty,
		Status:          models.ProductListed,
		ListedAt:        listedAt,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		writeStoreError(w, r, err, "failed to create product")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		writeStoreError(w, r, err, "failed to load product")
		return
	}
	var in struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		Category        *string  `json:"category"`
		UnitPrice       *float64 `json:"unit_price"`
		QuantityInStock *int     `json:"quantity_in_stock"`
		Status          *string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	v := validation.Violations{}
	if in.UnitPrice != nil {
		validation.PositiveFloat("unit_price", *in.UnitPrice, v)
	}
	if in.Status != nil {
		validation.OneOf("status", *in.Status, []string{
			models.ProductListed, models.ProductSold, models.ProductReturned, models.ProductDonated,
		}, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.UnitPrice != nil {
		p.UnitPrice = *in.UnitPrice
	}
	if in.QuantityInStock != nil {
		p.QuantityInStock = *in.QuantityInStock
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if err := h.DB.Save(&p).Error; err != nil {
		writeStoreError(w, r, err, "failed to update product")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete soft-deletes; sold products stay on their sale lines either way.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		writeStoreError(w, r, res.Error, "failed to delete product")
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
