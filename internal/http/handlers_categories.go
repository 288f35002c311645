package http

import (
	"net/http"
	"strconv"
	"strings"

	"moneyrec/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		categories []core.Category
		err        error
	)
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		typ := core.CategoryType(v)
		if !typ.Valid() {
			badRequest(w, "invalid category type "+strconv.Quote(v))
			return
		}
		categories, err = s.categories.CategoriesByType(r.Context(), typ)
	} else {
		categories, err = s.categories.Categories(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, fromCategory(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryJSON
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}

	category := payload.toCategory()
	if r.Method == http.MethodPut {
		id, err := pathID(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		category.ID = id
	} else {
		category.ID = 0
	}

	if err := s.categories.Save(r.Context(), &category); err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, fromCategory(category))
}

// handleDeleteCategory deletes a category. When the category still has
// transactions the caller must name a replacement of the same type via
// the replacement query parameter.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var replacementID int64
	if v := strings.TrimSpace(r.URL.Query().Get("replacement")); v != "" {
		replacementID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(w, "invalid replacement id")
			return
		}
	}

	if err := s.categories.Delete(r.Context(), id, replacementID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
