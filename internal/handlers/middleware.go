package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/types"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextUserKey contextKey = "user"

// SessionManager is the session state the handlers read and write.
type SessionManager interface {
	Login(ctx context.Context, userID int64) error
	Logout(ctx context.Context) error
	UserID(ctx context.Context) (int64, bool)
	SetNonce(ctx context.Context, nonce string)
	PopNonce(ctx context.Context) string
	Flash(ctx context.Context, message string)
	PopFlash(ctx context.Context) string
}

// UserLoader resolves the user bound to a session.
type UserLoader interface {
	CurrentUser(ctx context.Context, id int64) (types.User, error)
}

// LoadUser puts the signed-in user, if any, into the request context.
// Sessions pointing at a deleted account are cleared.
func LoadUser(sessions SessionManager, users UserLoader, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessions.UserID(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.CurrentUser(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, services.ErrNotFound) {
					log.WithError(err).WithField("user_id", userID).Error("load session user")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				if err := sessions.Logout(r.Context()); err != nil {
					log.WithError(err).Warn("clear stale session")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

// withUser returns the signed-in user as a pointer for templates, or nil.
func withUser(r *http.Request) *types.User {
	user, ok := userFromContext(r.Context())
	if !ok {
		return nil
	}
	return &user
}
