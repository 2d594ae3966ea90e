package handlers

import (
	"net/http"

	"github.com/campusboard/server/internal/services"
	"github.com/sirupsen/logrus"
)

// PageHandler carries what every HTML handler needs to render a page.
type PageHandler struct {
	renderer      *Renderer
	sessions      SessionManager
	log           logrus.FieldLogger
	googleEnabled bool
}

// NewPageHandler builds the shared page state. googleEnabled controls whether
// pages offer Google sign-in.
func NewPageHandler(renderer *Renderer, sessions SessionManager, log logrus.FieldLogger, googleEnabled bool) PageHandler {
	return PageHandler{renderer: renderer, sessions: sessions, log: log, googleEnabled: googleEnabled}
}

// data builds the common view data for r, consuming any pending flash message.
func (p PageHandler) data(r *http.Request) viewData {
	return viewData{
		CurrentUser:   withUser(r),
		Flash:         p.sessions.PopFlash(r.Context()),
		GoogleEnabled: p.googleEnabled,
	}
}

func (p PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data viewData) {
	p.renderer.Render(w, status, page, data)
}

// renderError shows the error page for err. Internal details are logged, never shown.
func (p PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	logIfInternal(p.log, r, err)
	status := statusFor(err)
	data := p.data(r)
	data.Status = status
	data.Error = services.Message(err)
	p.render(w, r, status, "error.html", data)
}

func (p PageHandler) notFound(w http.ResponseWriter, r *http.Request) {
	data := p.data(r)
	data.Status = http.StatusNotFound
	data.Error = "Page not found."
	p.render(w, r, http.StatusNotFound, "error.html", data)
}
