package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"consignshop/internal/httpx"
	"consignshop/internal/models"
	"consignshop/internal/validation"

	"gorm.io/gorm"
)

type ConsignorHandler struct {
	DB *gorm.DB
}

func NewConsignorHandler(db *gorm.DB) *ConsignorHandler { return &ConsignorHandler{DB: db} }

var searchSanitizer = regexp.MustCompile(`[^a-zA-Z0-9 \-_@.]`)

// pagination reads limit/page query params with the shared bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

// queryID reads the id query param used by the update/delete endpoints.
func queryID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing id", nil)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

func (h *ConsignorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	dbq := h.DB.Model(&models.Consignor{})
	if q != "" {
		like := "%" + strings.ToLower(searchSanitizer.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	var total int64
	dbq.Count(&total)
	var consignors []models.Consignor
	if err := dbq.Order("id desc").Limit(limit).Offset(offset).Find(&consignors).Error; err != nil {
		writeStoreError(w, r, err, "failed to list consignors")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": consignors, "total": total, "limit": limit, "offset": offset})
}

type consignorInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  *bool  `json:"active"`
}

func (h *ConsignorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in consignorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	c := models.Consignor{Name: strings.TrimSpace(in.Name), Email: in.Email, Phone: in.Phone, Address: in.Address, Active: true}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := h.DB.Create(&c).Error; err != nil {
		writeStoreError(w, r, err, "failed to create consignor")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ConsignorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	var c models.Consignor
	if err := h.DB.First(&c, id).Error; err != nil {
		writeStoreError(w, r, err, "failed to load consignor")
		return
	}
	var in consignorInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if in.Name != "" {
		c.Name = strings.TrimSpace(in.Name)
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := h.DB.Save(&c).Error; err != nil {
		writeStoreError(w, r, err, "failed to update consignor")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ConsignorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	res := h.DB.Delete(&models.Consignor{}, id)
	if res.Error != nil {
		writeStoreError(w, r, res.Error, "failed to delete consignor")
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
