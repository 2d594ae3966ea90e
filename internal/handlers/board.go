package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/types"
	"github.com/go-chi/chi/v5"
)

// boardRoutes describes the URL layout of one board.
type boardRoutes struct {
	Board      types.Board
	Title      string
	ListPath   string
	Prefix     string
	PublicList bool
}

var (
	personalRoutes = boardRoutes{
		Board:    types.BoardPersonal,
		Title:    "My board",
		ListPath: "/board",
		Prefix:   "/post",
	}
	bulletinRoutes = boardRoutes{
		Board:      types.BoardBulletin,
		Title:      "Bulletin board",
		ListPath:   "/bulletin",
		Prefix:     "/bulletin",
		PublicList: true,
	}
)

func (b boardRoutes) ListURL() string {
	return b.ListPath
}

func (b boardRoutes) NewURL() string {
	return b.Prefix + "/new"
}

func (b boardRoutes) ItemURL(id int64) string {
	return fmt.Sprintf("%s/%d", b.Prefix, id)
}

func (b boardRoutes) EditURL(id int64) string {
	return fmt.Sprintf("%s/edit/%d", b.Prefix, id)
}

func (b boardRoutes) DeleteURL(id int64) string {
	return fmt.Sprintf("%s/delete/%d", b.Prefix, id)
}

func (b boardRoutes) CommentURL(id int64) string {
	return fmt.Sprintf("%s/%d/comment", b.Prefix, id)
}

// BoardHandler serves the pages of a single board.
type BoardHandler struct {
	PageHandler
	boards *services.BoardService
	routes boardRoutes
}

// NewPersonalBoardHandler serves the members-only board under /board and /post.
func NewPersonalBoardHandler(p PageHandler, boards *services.BoardService) *BoardHandler {
	return &BoardHandler{PageHandler: p, boards: boards, routes: personalRoutes}
}

// NewBulletinBoardHandler serves the public board under /bulletin.
func NewBulletinBoardHandler(p PageHandler, boards *services.BoardService) *BoardHandler {
	return &BoardHandler{PageHandler: p, boards: boards, routes: bulletinRoutes}
}

// BoardRouter registers the routes of handler's board.
func BoardRouter(r chi.Router, handler *BoardHandler) {
	rt := handler.routes

	if rt.PublicList {
		r.Get(rt.ListPath, handler.List)
	} else {
		r.With(RequireUser).Get(rt.ListPath, handler.List)
	}

	r.Get(rt.Prefix+"/{id}", handler.View)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get(rt.NewURL(), handler.NewForm)
		r.Post(rt.NewURL(), handler.Create)
		r.Get(rt.Prefix+"/edit/{id}", handler.EditForm)
		r.Post(rt.Prefix+"/edit/{id}", handler.Update)
		r.Get(rt.Prefix+"/delete/{id}", handler.Delete)
		r.Post(rt.Prefix+"/{id}/comment", handler.Comment)
	})
}

func (h *BoardHandler) data(r *http.Request) viewData {
	data := h.PageHandler.data(r)
	data.Routes = h.routes
	return data
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.boards.List(r.Context(), h.routes.Board)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Posts = posts
	h.render(w, r, http.StatusOK, "board.html", data)
}

func (h *BoardHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	view, err := h.boards.Get(r.Context(), h.routes.Board, id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.View = view
	h.render(w, r, http.StatusOK, "post.html", data)
}

func (h *BoardHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "post_form.html", h.data(r))
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, errors.Join(services.ErrValidation, err))
		return
	}
	title, content := r.PostForm.Get("title"), r.PostForm.Get("content")

	post, err := h.boards.Create(r.Context(), h.routes.Board, user.ID, title, content)
	if err != nil {
		h.renderForm(w, r, types.Post{Title: title, Content: content}, err)
		return
	}
	http.Redirect(w, r, h.routes.ItemURL(post.ID), http.StatusSeeOther)
}

func (h *BoardHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	post, err := h.boards.GetForEdit(r.Context(), h.routes.Board, id, user.ID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.data(r)
	data.Post = post
	h.render(w, r, http.StatusOK, "post_form.html", data)
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, errors.Join(services.ErrValidation, err))
		return
	}
	title, content := r.PostForm.Get("title"), r.PostForm.Get("content")

	post, err := h.boards.Update(r.Context(), h.routes.Board, id, user.ID, title, content)
	if err != nil {
		h.renderForm(w, r, types.Post{ID: id, Title: title, Content: content}, err)
		return
	}
	http.Redirect(w, r, h.routes.ItemURL(post.ID), http.StatusSeeOther)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.boards.Delete(r.Context(), h.routes.Board, id, user.ID); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.sessions.Flash(r.Context(), "Post deleted.")
	http.Redirect(w, r, h.routes.ListURL(), http.StatusSeeOther)
}

// Comment attaches a comment to the post. Blank comments are dropped and
// the user is sent back to the post either way.
func (h *BoardHandler) Comment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	id, ok := idParam(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, errors.Join(services.ErrValidation, err))
		return
	}

	target := types.TargetFor(h.routes.Board, id)
	if _, _, err := h.boards.AddComment(r.Context(), target, user.ID, r.PostForm.Get("content")); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, h.routes.ItemURL(id), http.StatusSeeOther)
}

// renderForm re-renders the post form with the submitted values for
// validation failures and falls back to the error page otherwise.
func (h *BoardHandler) renderForm(w http.ResponseWriter, r *http.Request, post types.Post, err error) {
	if !errors.Is(err, services.ErrValidation) {
		h.renderError(w, r, err)
		return
	}
	data := h.data(r)
	data.Post = post
	data.Error = services.Message(err)
	h.render(w, r, http.StatusBadRequest, "post_form.html", data)
}
