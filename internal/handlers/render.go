package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/campusboard/server/types"
	"github.com/sirupsen/logrus"
)

var pages = []string{
	"index.html",
	"register.html",
	"login.html",
	"board.html",
	"post_form.html",
	"post.html",
	"error.html",
}

// viewData is the data every page template receives. Page-specific
// fields are left zero when unused.
type viewData struct {
	CurrentUser   *types.User
	Flash         string
	Error         string
	GoogleEnabled bool
	Status        int

	Username string
	Routes   boardRoutes
	Posts    []types.Post
	Post     types.Post
	View     types.PostView
}

// Renderer executes the HTML page templates.
type Renderer struct {
	templates map[string]*template.Template
	log       logrus.FieldLogger
}

// NewRenderer parses every page together with the base layout from fsys.
func NewRenderer(fsys fs.FS, log logrus.FieldLogger) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatTime": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
		"statusText": http.StatusText,
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(fsys, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates, log: log}, nil
}

// Render writes page with status. The page is rendered to a buffer first so
// a template failure still yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data viewData) {
	tmpl, ok := rd.templates[page]
	if !ok {
		rd.log.WithField("page", page).Error("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rd.log.WithError(err).WithField("page", page).Error("render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
