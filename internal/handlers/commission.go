package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"consignshop/internal/httpx"
	"consignshop/internal/services"
	"consignshop/internal/validation"
)

type CommissionHandler struct {
	Svc *services.CommissionService
}

func NewCommissionHandler(svc *services.CommissionService) *CommissionHandler {
	return &CommissionHandler{Svc: svc}
}

// Report: GET /commissions/report?consignor_id=&period_start=&period_end=
func (h *CommissionHandler) Report(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	idStr := r.URL.Query().Get("consignor_id")
	consignorID, err := strconv.Atoi(idStr)
	if idStr == "" || err != nil || consignorID <= 0 {
		v["consignor_id"] = "required"
	}
	periodStart := validation.Date("period_start", r.URL.Query().Get("period_start"), v)
	periodEnd := validation.Date("period_end", r.URL.Query().Get("period_end"), v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	report, rerr := h.Svc.GetOrCreateReport(uint(consignorID), periodStart, periodEnd)
	if rerr != nil {
		writeServiceError(w, r, rerr)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// Unpaid: GET /commissions/unpaid
func (h *CommissionHandler) Unpaid(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListByStatus(false)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

// Paid: GET /commissions/paid
func (h *CommissionHandler) Paid(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListByStatus(true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

// Details: GET /commissions/details?id=
func (h *CommissionHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	tracking, err := h.Svc.Details(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tracking)
}

// Verify: GET /commissions/verify?id=
func (h *CommissionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	tracking, err := h.Svc.Verify(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payable": true, "tracking": tracking})
}

// Payment: POST /commissions/payment
func (h *CommissionHandler) Payment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	var in services.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	payment, err := h.Svc.RecordPayment(in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}
