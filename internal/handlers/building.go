package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusboard/server/internal/services"
	"github.com/go-chi/chi/v5"
)

// BuildingHandler serves the building information pages.
type BuildingHandler struct {
	PageHandler
	buildings *services.BuildingService
}

func NewBuildingHandler(p PageHandler, buildings *services.BuildingService) *BuildingHandler {
	return &BuildingHandler{PageHandler: p, buildings: buildings}
}

// Page writes the stored HTML of the building named by {id}.
func (h *BuildingHandler) Page(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	page, err := h.buildings.Page(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
