package employees

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"staffcore/internal/auth"
)

// Storer is what the handlers need from the persistence layer. *Store
// satisfies it; tests use an in-memory fake.
type Storer interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, id int64, e *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Store  Storer
	Logger *slog.Logger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	// Authentication is handled by middleware; we just ensure it ran.
	if _, ok := auth.RoleFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	list, err := h.Store.List(r.Context())
	if err != nil {
		h.Logger.Error("list employees", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.RoleFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, "get employee", err)
		return
	}
	writeJSON(w, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var e Employee
	if !decodeEmployee(w, r, &e) {
		return
	}
	if err := h.Store.Create(r.Context(), &e); err != nil {
		h.Logger.Error("create employee", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, &e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var e Employee
	if !decodeEmployee(w, r, &e) {
		return
	}
	// The path id is authoritative; an id in the body is ignored.
	updated, err := h.Store.Update(r.Context(), id, &e)
	if err != nil {
		h.writeStoreError(w, "update employee", err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, "delete employee", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.Logger.Error(op, "err", err)
	w.WriteHeader(http.StatusInternalServerError)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeEmployee(w http.ResponseWriter, r *http.Request, e *Employee) bool {
	if err := json.NewDecoder(r.Body).Decode(e); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	if e.Name == "" || e.Position == "" {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
