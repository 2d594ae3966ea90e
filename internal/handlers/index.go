package handlers

import (
	"net/http"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/types"
)

// IndexHandler serves the home page.
type IndexHandler struct {
	PageHandler
	boards *services.BoardService
}

func NewIndexHandler(p PageHandler, boards *services.BoardService) *IndexHandler {
	return &IndexHandler{PageHandler: p, boards: boards}
}

// Index lists the most recent bulletin posts.
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.boards.Recent(r.Context(), types.BoardBulletin, services.RecentBulletinLimit)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Posts = posts
	h.render(w, r, http.StatusOK, "index.html", data)
}

// NotFound renders the 404 page for unmatched routes.
func (h *IndexHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}
