package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"findr/internal/hunt"
	"findr/internal/model"
	"findr/internal/store"
)

// ItemsHandler handles the admin item CRUD endpoints.
type ItemsHandler struct {
	Hunt *hunt.Service
}

type itemRequest struct {
	Name       string `json:"name"`
	Clue       string `json:"clue"`
	Code       string `json:"code"`
	Directions string `json:"directions"`
}

func (r itemRequest) fields() store.ItemFields {
	return store.ItemFields{Name: r.Name, Clue: r.Clue, Code: r.Code, Directions: r.Directions}
}

// adminItem is the full item view, codes and directions included. Only
// authenticated admin endpoints return it.
type adminItem struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Clue       string     `json:"clue"`
	Code       string     `json:"code"`
	Directions string     `json:"directions"`
	Found      bool       `json:"found"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FoundAt    *time.Time `json:"found_at,omitempty"`
}

func toAdminItem(i *model.Item) adminItem {
	return adminItem{
		ID:         i.ID,
		Name:       i.Name,
		Clue:       i.Clue,
		Code:       i.Code,
		Directions: i.Directions,
		Found:      i.Found,
		PhotoURL:   i.PhotoURL,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
		FoundAt:    i.FoundAt,
	}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Hunt.All(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	out := make([]adminItem, 0, len(items))
	for i := range items {
		out = append(out, toAdminItem(&items[i]))
	}
	jsonResponse(w, http.StatusOK, out)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Code == "" {
		jsonError(w, http.StatusBadRequest, "name and code required")
		return
	}

	item, err := h.Hunt.Add(r.Context(), req.fields())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, toAdminItem(item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Hunt.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	jsonResponse(w, http.StatusOK, toAdminItem(item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Hunt.Edit(r.Context(), id, req.fields()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	item, err := h.Hunt.Get(r.Context(), id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, toAdminItem(item))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Hunt.Remove(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusNoContent, nil)
}
