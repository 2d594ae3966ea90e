// Package session manages cookie-backed server-side sessions.
package session

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/campusboard/server/config"
)

const (
	cookieName = "campusboard_session"

	userIDKey = "user_id"
	nonceKey  = "oauth_nonce"
	flashKey  = "flash"
)

// Manager stores the signed-in user and short-lived OAuth state in the session.
type Manager struct {
	sm *scs.SessionManager
}

// New builds a Manager persisting sessions in store. A nil store keeps
// sessions in process memory.
func New(cfg config.SessionConfig, store scs.Store) *Manager {
	sm := scs.New()
	if store == nil {
		store = memstore.New()
	}
	sm.Store = store
	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.SecureCookie
	sm.Cookie.Path = "/"
	return &Manager{sm: sm}
}

// LoadAndSave loads the session for each request and writes it back afterwards.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.sm.LoadAndSave(next)
}

// Login binds userID to the session under a fresh token.
func (m *Manager) Login(ctx context.Context, userID int64) error {
	if err := m.sm.RenewToken(ctx); err != nil {
		return err
	}
	m.sm.Put(ctx, userIDKey, userID)
	return nil
}

// Logout destroys the session.
func (m *Manager) Logout(ctx context.Context) error {
	return m.sm.Destroy(ctx)
}

// UserID returns the signed-in user, if any.
func (m *Manager) UserID(ctx context.Context) (int64, bool) {
	id := m.sm.GetInt64(ctx, userIDKey)
	return id, id > 0
}

func (m *Manager) SetNonce(ctx context.Context, nonce string) {
	m.sm.Put(ctx, nonceKey, nonce)
}

// PopNonce returns and removes the pending OAuth nonce.
func (m *Manager) PopNonce(ctx context.Context) string {
	return m.sm.PopString(ctx, nonceKey)
}

// Flash stores a one-time message for the next page render.
func (m *Manager) Flash(ctx context.Context, message string) {
	m.sm.Put(ctx, flashKey, message)
}

func (m *Manager) PopFlash(ctx context.Context) string {
	return m.sm.PopString(ctx, flashKey)
}
