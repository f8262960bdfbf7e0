package web

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"findr/internal/auth"
	"findr/internal/store"
)

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "login.html", &PageData{Title: "Admin Login"})
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, http.StatusOK, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Enter a username and password.",
		})
		return
	}

	admin, err := s.Admins.GetAdminByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.Templates.Render(w, http.StatusOK, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Login failed. Please try again.",
		})
		return
	}
	if admin == nil ||
		bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		s.Templates.Render(w, http.StatusOK, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Invalid username or password.",
		})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, admin.ID, admin.Username)
	if err != nil {
		s.Templates.Render(w, http.StatusOK, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Login failed. Please try again.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
