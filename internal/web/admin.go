package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"findr/internal/model"
	"findr/internal/store"
)

// AdminPage handles GET /admin: all items plus the add form.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := s.Hunt.All(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, http.StatusOK, "admin.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: PageData{Title: "Admin", Admin: claims},
		Items:    items,
	})
}

// AdminAddSubmit handles POST /admin/add.
func (s *Server) AdminAddSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	fields := itemFormFields(r)

	if fields.Name == "" || fields.Code == "" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if item, err := s.Hunt.Add(r.Context(), fields); err != nil {
		slog.Error("failed to add item", "error", err)
	} else {
		slog.Info("item hidden", "admin", claims.Username, "item", item.Name)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// AdminEditPage handles GET /admin/edit/{id}.
func (s *Server) AdminEditPage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := s.Hunt.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, http.StatusOK, "admin_edit.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: "Edit " + item.Name, Admin: claims},
		Item:     item,
	})
}

// AdminEditSubmit handles POST /admin/edit/{id}.
func (s *Server) AdminEditSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	fields := itemFormFields(r)
	if err := s.Hunt.Edit(r.Context(), id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to update item", "error", err)
		http.Error(w, "failed to update", http.StatusInternalServerError)
		return
	}

	slog.Info("item updated", "admin", claims.Username, "item", fields.Name)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// AdminDeleteSubmit handles POST /admin/delete/{id}.
func (s *Server) AdminDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.Hunt.Remove(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to delete item", "error", err)
		http.Error(w, "failed to delete", http.StatusInternalServerError)
		return
	}

	slog.Info("item deleted", "admin", claims.Username, "id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// itemFormFields pulls the four editable fields from an admin form.
func itemFormFields(r *http.Request) store.ItemFields {
	return store.ItemFields{
		Name:       r.FormValue("name"),
		Clue:       r.FormValue("clue"),
		Code:       r.FormValue("code"),
		Directions: r.FormValue("directions"),
	}
}
