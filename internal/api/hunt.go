package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"findr/internal/hunt"
	"findr/internal/store"
	"findr/internal/uploads"
)

// maxPhotoBytes bounds proof photo uploads on the API surface.
const maxPhotoBytes = 10 << 20

// HuntHandler handles the public hunt endpoints.
type HuntHandler struct {
	Hunt *hunt.Service
}

// publicItem is the hunter-facing item view: no directions, no photo.
type publicItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Clue string `json:"clue"`
}

// Hidden handles GET /api/items/hidden.
func (h *HuntHandler) Hidden(w http.ResponseWriter, r *http.Request) {
	items, err := h.Hunt.Hidden(r.Context())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list hidden items")
		return
	}

	out := make([]publicItem, 0, len(items))
	for _, item := range items {
		out = append(out, publicItem{ID: item.ID, Name: item.Name, Clue: item.Clue})
	}
	jsonResponse(w, http.StatusOK, out)
}

type foundRequest struct {
	Code string `json:"code"`
}

// Found handles POST /api/found: code lookup.
func (h *HuntHandler) Found(w http.ResponseWriter, r *http.Request) {
	var req foundRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Hunt.Lookup(r.Context(), req.Code)
	if errors.Is(err, hunt.ErrInvalidCode) {
		jsonError(w, http.StatusNotFound, "invalid code")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	jsonResponse(w, http.StatusOK, publicItem{ID: item.ID, Name: item.Name, Clue: item.Clue})
}

// redemptionResponse is returned after a successful redeem.
type redemptionResponse struct {
	Name       string `json:"name"`
	Directions string `json:"directions"`
	PhotoURL   string `json:"photo_url"`
}

// Redeem handles POST /api/redeem (multipart: code, inputCode, photo).
func (h *HuntHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "photo too large")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo required")
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read photo")
		return
	}

	red, err := h.Hunt.Redeem(r.Context(), r.FormValue("code"), r.FormValue("inputCode"), photo, header.Filename)
	if err != nil {
		writeRedeemError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, redemptionResponse{
		Name:       red.Item.Name,
		Directions: red.Item.Directions,
		PhotoURL:   red.PhotoURL,
	})
}

func writeRedeemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, store.ErrAlreadyFound):
		jsonError(w, http.StatusConflict, "item already found")
	case errors.Is(err, hunt.ErrCodeMismatch), errors.Is(err, hunt.ErrInvalidCode):
		jsonError(w, http.StatusBadRequest, "invalid code")
	case errors.Is(err, hunt.ErrBadPhoto):
		jsonError(w, http.StatusBadRequest, "photo must be a JPEG or PNG")
	case errors.Is(err, uploads.ErrUploadFailed):
		slog.Error("proof photo upload failed", "error", err)
		jsonError(w, http.StatusBadGateway, "failed to store photo")
	default:
		slog.Error("redemption failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "redemption failed")
	}
}
