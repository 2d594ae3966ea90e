package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/campusboard/server/internal/services"
	"github.com/sirupsen/logrus"
)

const maxSearchBody = 16 << 10

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Result string `json:"result"`
}

// SearchHandler proxies free-text queries to the generative model.
type SearchHandler struct {
	search *services.SearchService
	log    logrus.FieldLogger
}

func NewSearchHandler(search *services.SearchService, log logrus.FieldLogger) *SearchHandler {
	return &SearchHandler{search: search, log: log}
}

// Search answers POST /gemini-search. The body may be JSON or a form.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBody)

	var req searchRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		req.Query = r.PostForm.Get("query")
	}

	result := h.search.Search(r.Context(), req.Query)
	if result.Err != nil {
		logIfInternal(h.log, r, result.Err)
	}
	writeJSON(w, statusFor(result.Err), searchResponse{Result: result.Text})
}
