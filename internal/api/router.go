package api

import (
	"net/http"

	"findr/internal/hunt"
	"findr/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *hunt.Service, admins store.Admins, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Admins: admins, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{Hunt: svc}
	huntHandler := &HuntHandler{Hunt: svc}

	authMW := AuthMiddleware(jwtSecret)

	// Public: login and the hunt itself.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items/hidden", huntHandler.Hidden)
	mux.HandleFunc("POST /api/found", huntHandler.Found)
	mux.HandleFunc("POST /api/redeem", huntHandler.Redeem)

	// Admin item CRUD.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	return mux
}
