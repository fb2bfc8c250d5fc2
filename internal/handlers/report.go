package handlers

import (
	"encoding/json"
	"net/http"

	"consignshop/internal/casing"
	"consignshop/internal/httpx"
	"consignshop/internal/services"
)

type ReportHandler struct {
	Svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler { return &ReportHandler{Svc: svc} }

// ConsignorCommissions: GET /reports/consignor-commissions?dateRange=
// The dashboard consumes camelCase keys, so the snake_case row JSON is run
// through the casing translator before writing.
func (h *ReportHandler) ConsignorCommissions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.ConsignorCommissions(r.URL.Query().Get("dateRange"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	raw, err := json.Marshal(map[string]any{"items": rows, "total": len(rows)})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, casing.CamelizeKeys(decoded))
}
