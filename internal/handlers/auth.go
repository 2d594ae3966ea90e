package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const googleSignInFailed = "Google sign-in failed."

// OAuthProvider runs a federated sign-in.
type OAuthProvider interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (types.ExternalIdentity, error)
}

// StateSigner signs and checks the OAuth state parameter.
type StateSigner interface {
	Sign(nonce string) (string, error)
	Verify(state, nonce string) error
}

// AuthHandler serves registration, login and logout pages.
type AuthHandler struct {
	PageHandler
	auth     *services.AuthService
	provider OAuthProvider
	state    StateSigner
}

// NewAuthHandler constructs an AuthHandler. A nil provider disables Google sign-in.
func NewAuthHandler(p PageHandler, auth *services.AuthService, provider OAuthProvider, state StateSigner) *AuthHandler {
	return &AuthHandler{PageHandler: p, auth: auth, provider: provider, state: state}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Get("/register", handler.RegisterForm)
	r.Post("/register", handler.Register)
	r.Get("/login", handler.LoginForm)
	r.Post("/login", handler.Login)
	r.Get("/login/google", handler.GoogleLogin)
	r.Get("/callback", handler.GoogleCallback)
	r.With(RequireUser).Get("/logout", handler.Logout)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", h.data(r))
}

// Register creates a local account and sends the user to the login page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, errors.Join(services.ErrValidation, err))
		return
	}
	username := r.PostForm.Get("username")

	if _, err := h.auth.Register(r.Context(), username, r.PostForm.Get("password")); err != nil {
		if status := statusFor(err); status < http.StatusInternalServerError {
			data := h.data(r)
			data.Error = services.Message(err)
			data.Username = username
			h.render(w, r, status, "register.html", data)
			return
		}
		h.renderError(w, r, err)
		return
	}

	h.sessions.Flash(r.Context(), "Registration complete. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", h.data(r))
}

// Login verifies credentials and binds the user to a renewed session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, errors.Join(services.ErrValidation, err))
		return
	}
	username := r.PostForm.Get("username")

	user, err := h.auth.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if status := statusFor(err); status < http.StatusInternalServerError {
			data := h.data(r)
			data.Error = services.Message(err)
			data.Username = username
			h.render(w, r, status, "login.html", data)
			return
		}
		h.renderError(w, r, err)
		return
	}

	if err := h.sessions.Login(r.Context(), user.ID); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GoogleLogin starts the authorization code flow.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.renderError(w, r, &services.Error{Kind: services.ErrUnavailable, Message: "Google sign-in is not configured."})
		return
	}

	nonce := uuid.NewString()
	state, err := h.state.Sign(nonce)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.sessions.SetNonce(r.Context(), nonce)
	http.Redirect(w, r, h.provider.AuthCodeURL(state, nonce), http.StatusFound)
}

// GoogleCallback completes the flow. The session nonce is consumed whether
// or not the callback succeeds.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.renderError(w, r, &services.Error{Kind: services.ErrUnavailable, Message: "Google sign-in is not configured."})
		return
	}

	nonce := h.sessions.PopNonce(r.Context())
	query := r.URL.Query()

	fail := func(reason string, err error) {
		entry := h.log.WithField("reason", reason)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Warn("google sign-in rejected")
		h.renderError(w, r, &services.Error{Kind: services.ErrAuthentication, Message: googleSignInFailed})
	}

	if providerErr := query.Get("error"); providerErr != "" {
		fail("provider error: "+providerErr, nil)
		return
	}
	if err := h.state.Verify(query.Get("state"), nonce); err != nil {
		fail("state", err)
		return
	}
	identity, err := h.provider.Exchange(r.Context(), query.Get("code"), nonce)
	if err != nil {
		fail("exchange", err)
		return
	}

	user, _, err := h.auth.SignInWithGoogle(r.Context(), identity)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := h.sessions.Login(r.Context(), user.ID); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
