package api

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"findr/internal/auth"
	"findr/internal/store"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	Admins    store.Admins
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.Admins.GetAdminByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		jsonError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, admin.ID, admin.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "login failed")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}
