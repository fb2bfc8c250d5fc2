package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"consignshop/internal/apperr"
	"consignshop/internal/httpx"

	"gorm.io/gorm"
)

// writeServiceError maps a service-layer error to an HTTP response. Store and
// consistency failures are logged server-side; the underlying cause is only
// echoed to the client outside production.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		log.Printf("%s %s: unexpected error: %v", r.Method, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	status := apperr.Status(ae)
	detail := ae.Detail
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, ae)
		if detail == nil && ae.Err != nil && !production() {
			detail = ae.Err.Error()
		}
	}
	httpx.JSONError(w, status, ae.Msg, detail)
}

// writeStoreError maps raw gorm errors from CRUD handlers to the taxonomy.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		httpx.JSONError(w, http.StatusConflict, "duplicate record", nil)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		httpx.JSONError(w, http.StatusBadRequest, "referenced record does not exist", nil)
	default:
		log.Printf("%s %s: %s: %v", r.Method, r.URL.Path, msg, err)
		var detail any
		if !production() {
			detail = err.Error()
		}
		httpx.JSONError(w, http.StatusInternalServerError, msg, detail)
	}
}

func production() bool { return os.Getenv("APP_ENV") == "production" }
