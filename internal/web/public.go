package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"findr/internal/hunt"
	"findr/internal/model"
	"findr/internal/store"
	"findr/internal/uploads"
)

// maxPhotoBytes bounds proof photo uploads.
const maxPhotoBytes = 10 << 20

// HomePage handles GET /: the public listing of hidden items.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	items, err := s.Hunt.Hidden(r.Context())
	if err != nil {
		slog.Error("failed to list hidden items", "error", err)
		s.renderMessage(w, http.StatusInternalServerError, "Something went wrong loading the hunt. Please try again.")
		return
	}

	s.Templates.Render(w, http.StatusOK, "home.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Westhaven Scavenger"},
		Items:    items,
	})
}

// FoundSubmit handles POST /found: code lookup. On a match the hunter gets
// the proof-upload form pre-filled with the code.
func (s *Server) FoundSubmit(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")

	item, err := s.Hunt.Lookup(r.Context(), code)
	if errors.Is(err, hunt.ErrInvalidCode) {
		s.renderMessage(w, http.StatusOK, "Invalid code. Please try again.")
		return
	}
	if err != nil {
		slog.Error("failed to look up code", "error", err)
		s.renderMessage(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	s.Templates.Render(w, http.StatusOK, "found.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: "You found it!"},
		Item:     item,
	})
}

// UploadSubmit handles POST /upload: verify the re-typed code, store the
// proof photo, finalize the redemption, and reveal the prize directions.
func (s *Server) UploadSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		s.renderMessage(w, http.StatusOK, "Photo too large. Please upload a smaller one.")
		return
	}

	code := r.FormValue("code")
	inputCode := r.FormValue("inputCode")

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.renderMessage(w, http.StatusOK, "Photo proof is required.")
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read photo upload", "error", err)
		s.renderMessage(w, http.StatusInternalServerError, "Something went wrong reading your photo. Please try again.")
		return
	}

	red, err := s.Hunt.Redeem(r.Context(), code, inputCode, photo, header.Filename)
	if err != nil {
		s.renderRedeemError(w, err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "success.html", &struct {
		PageData
		Item     *model.Item
		PhotoURL string
	}{
		PageData: PageData{Title: "Congratulations!"},
		Item:     red.Item,
		PhotoURL: red.PhotoURL,
	})
}

// renderRedeemError maps workflow errors to user-facing messages.
// User-input errors get retry prompts; infrastructure errors get a
// generic failure and a server-side log line.
func (s *Server) renderRedeemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.renderMessage(w, http.StatusOK, "Item not found. Please try again.")
	case errors.Is(err, store.ErrAlreadyFound):
		s.renderMessage(w, http.StatusOK, "This item has already been found.")
	case errors.Is(err, hunt.ErrCodeMismatch), errors.Is(err, hunt.ErrInvalidCode):
		s.renderMessage(w, http.StatusOK, "Invalid code. Please try again.")
	case errors.Is(err, hunt.ErrBadPhoto):
		s.renderMessage(w, http.StatusOK, "That photo could not be read. Please upload a JPEG or PNG.")
	case errors.Is(err, uploads.ErrUploadFailed):
		slog.Error("proof photo upload failed", "error", err)
		s.renderMessage(w, http.StatusInternalServerError, "We could not store your photo. Please try again.")
	default:
		slog.Error("redemption failed", "error", err)
		s.renderMessage(w, http.StatusInternalServerError, "An error occurred while processing your upload. Please try again.")
	}
}

// renderMessage renders the plain message page with a back link.
func (s *Server) renderMessage(w http.ResponseWriter, status int, msg string) {
	s.Templates.Render(w, status, "message.html", &struct {
		PageData
		Message string
	}{
		PageData: PageData{Title: "Westhaven Scavenger"},
		Message:  msg,
	})
}
