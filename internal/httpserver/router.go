package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"staffcore/internal/auth"
	"staffcore/internal/employees"
)

// NewRouter wires the API routes. Reads require any authenticated role;
// writes require Admin.
func NewRouter(
	logger *slog.Logger,
	codec *auth.Codec,
	creds *auth.Credentials,
	store employees.Storer,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Auth
	mux.Handle("POST /api/auth/login", loginHandler(codec, creds, logger))

	// Employees
	emp := &employees.Handler{
		Store:  store,
		Logger: logger,
	}

	secured := auth.Middleware(codec)
	admin := func(h http.HandlerFunc) http.Handler {
		return secured(auth.RequireRole(h, auth.RoleAdmin))
	}
	anyRole := func(h http.HandlerFunc) http.Handler {
		return secured(auth.RequireRole(h, auth.RoleAdmin, auth.RoleViewer))
	}

	mux.Handle("GET /api/employees", anyRole(emp.List))
	mux.Handle("GET /api/employees/{id}", anyRole(emp.Get))
	mux.Handle("POST /api/employees", admin(emp.Create))
	mux.Handle("PUT /api/employees/{id}", admin(emp.Update))
	mux.Handle("DELETE /api/employees/{id}", admin(emp.Delete))

	// CORS wrapper (simple, for local UI/tools).
	return withCORS(mux)
}
