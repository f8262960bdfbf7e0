package web

import (
	"net/http"

	"findr/internal/hunt"
	"findr/internal/store"
	webembed "findr/web"
)

// Config carries the router's dependencies.
type Config struct {
	Hunt      *hunt.Service
	Admins    store.Admins
	JWTSecret string

	// UploadsDir, when set, is served under /uploads/ for the disk
	// photo sink. Remote sinks leave it empty.
	UploadsDir string
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(cfg Config) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Hunt:      cfg.Hunt,
		Admins:    cfg.Admins,
		Templates: templates,
		JWTSecret: cfg.JWTSecret,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(cfg.JWTSecret)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	if cfg.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	// Public hunt routes.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("POST /found", s.FoundSubmit)
	mux.HandleFunc("POST /upload", s.UploadSubmit)

	// Admin login.
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.HandleFunc("POST /admin/logout", s.Logout)

	// Admin CRUD.
	mux.Handle("GET /admin", cookieAuth(http.HandlerFunc(s.AdminPage)))
	mux.Handle("POST /admin/add", cookieAuth(http.HandlerFunc(s.AdminAddSubmit)))
	mux.Handle("GET /admin/edit/{id}", cookieAuth(http.HandlerFunc(s.AdminEditPage)))
	mux.Handle("POST /admin/edit/{id}", cookieAuth(http.HandlerFunc(s.AdminEditSubmit)))
	mux.Handle("POST /admin/delete/{id}", cookieAuth(http.HandlerFunc(s.AdminDeleteSubmit)))

	return mux, nil
}
