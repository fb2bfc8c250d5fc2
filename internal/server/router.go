package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"consignshop/internal/auth"
	"consignshop/internal/handlers"
	"consignshop/internal/httpx"
	"consignshop/internal/models"
	"consignshop/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1); detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}
	listCreate := func(list, create http.HandlerFunc) http.Handler {
		return requireAuth(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
			}
		})
	}

	// Entity endpoints. List/Create share the collection path; Update/Delete
	// live on /<entity>/update and /<entity>/delete with ?id=.
	ch := handlers.NewConsignorHandler(db)
	mux.Handle("/consignors", listCreate(ch.List, ch.Create))
	mux.Handle("/consignors/update", requireAuth(ch.Update))
	mux.Handle("/consignors/delete", requireAuth(ch.Delete))

	ph := handlers.NewProductHandler(db)
	mux.Handle("/products", listCreate(ph.List, ph.Create))
	mux.Handle("/products/update", requireAuth(ph.Update))
	mux.Handle("/products/delete", requireAuth(ph.Delete))

	ah := handlers.NewAgreementHandler(db)
	mux.Handle("/agreements", listCreate(ah.List, ah.Create))
	mux.Handle("/agreements/update", requireAuth(ah.Update))
	mux.Handle("/agreements/delete", requireAuth(ah.Delete))

	sh := handlers.NewSaleHandler(db, services.NewSaleService(db))
	mux.Handle("/sales", listCreate(sh.List, sh.Create))
	mux.Handle("/sales/receipt", requireAuth(sh.Receipt))

	commissionHandler := handlers.NewCommissionHandler(services.NewCommissionService(db))
	mux.Handle("/commissions/report", requireAuth(commissionHandler.Report))
	mux.Handle("/commissions/unpaid", requireAuth(commissionHandler.Unpaid))
	mux.Handle("/commissions/paid", requireAuth(commissionHandler.Paid))
	mux.Handle("/commissions/details", requireAuth(commissionHandler.Details))
	mux.Handle("/commissions/verify", requireAuth(commissionHandler.Verify))
	mux.Handle("/commissions/payment", requireAuth(commissionHandler.Payment))

	reportHandler := handlers.NewReportHandler(services.NewReportService(db))
	mux.Handle("/reports/consignor-commissions", requireAuth(reportHandler.ConsignorCommissions))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Consignment Shop API"))
	})

	return withRecover(withLogging(auth.Middleware(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecover guarantees a structured JSON body even on panic.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
