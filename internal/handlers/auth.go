package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"consignshop/internal/auth"
	"consignshop/internal/httpx"
	"consignshop/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, false
	}
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	return c, true
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	c, ok := decodeCredentials(r)
	if !ok || c.Email == "" || c.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email and password required", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed to hash password", nil)
		return
	}
	user := models.User{Email: c.Email, Password: string(hash), Name: c.Name}
	if err := h.DB.Create(&user).Error; err != nil {
		writeStoreError(w, r, err, "failed to create user")
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	c, ok := decodeCredentials(r)
	if !ok || c.Email == "" || c.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email and password required", nil)
		return
	}
	var user models.User
	if err := h.DB.Where("email = ?", c.Email).First(&user).Error; err != nil {
		// Same response as a wrong password; do not reveal which field failed.
		httpx.JSONError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(c.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
