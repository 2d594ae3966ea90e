package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/campusboard/server/config"
	"github.com/campusboard/server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

func newTestProvider(t *testing.T, tokenResponse string, validate validateFunc) *GoogleProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenResponse))
	}))
	t.Cleanup(srv.Close)

	provider, err := NewGoogleProvider(config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/callback",
	})
	require.NoError(t, err)
	provider.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	provider.validate = validate
	return provider
}

func TestNewGoogleProvider_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleProvider(config.GoogleConfig{ClientID: "only-id"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	provider, err := NewGoogleProvider(config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/callback",
	})
	require.NoError(t, err)

	u, err := url.Parse(provider.AuthCodeURL("signed-state", "nonce-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "signed-state", q.Get("state"))
	assert.Equal(t, "nonce-1", q.Get("nonce"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestGoogleProvider_Exchange(t *testing.T) {
	provider := newTestProvider(t,
		`{"access_token":"at","token_type":"Bearer","id_token":"raw-id-token"}`,
		func(_ context.Context, idToken, audience string) (*idtoken.Payload, error) {
			assert.Equal(t, "raw-id-token", idToken)
			assert.Equal(t, "client-id", audience)
			return &idtoken.Payload{
				Subject: "sub-123",
				Claims: map[string]interface{}{
					"nonce":          "nonce-1",
					"email":          "alice@example.com",
					"email_verified": true,
					"name":           "Alice",
					"picture":        "https://example.com/a.png",
				},
			}, nil
		})

	identity, err := provider.Exchange(context.Background(), "auth-code", "nonce-1")

	require.NoError(t, err)
	assert.Equal(t, types.ExternalIdentity{
		Subject: "sub-123",
		Email:   "alice@example.com",
		Name:    "Alice",
		Picture: "https://example.com/a.png",
	}, identity)
}

func TestGoogleProvider_Exchange_NonceMismatch(t *testing.T) {
	provider := newTestProvider(t,
		`{"access_token":"at","token_type":"Bearer","id_token":"raw-id-token"}`,
		func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Subject: "sub-123", Claims: map[string]interface{}{"nonce": "replayed"}}, nil
		})

	_, err := provider.Exchange(context.Background(), "auth-code", "nonce-1")

	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestGoogleProvider_Exchange_MissingIDToken(t *testing.T) {
	provider := newTestProvider(t, `{"access_token":"at","token_type":"Bearer"}`,
		func(context.Context, string, string) (*idtoken.Payload, error) {
			t.Fatal("validate must not be called")
			return nil, nil
		})

	_, err := provider.Exchange(context.Background(), "auth-code", "nonce-1")

	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestGoogleProvider_Exchange_InvalidSignature(t *testing.T) {
	provider := newTestProvider(t,
		`{"access_token":"at","token_type":"Bearer","id_token":"raw-id-token"}`,
		func(context.Context, string, string) (*idtoken.Payload, error) {
			return nil, errors.New("idtoken: invalid signature")
		})

	_, err := provider.Exchange(context.Background(), "auth-code", "nonce-1")

	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestIdentityFromPayload(t *testing.T) {
	identity, err := identityFromPayload(&idtoken.Payload{
		Subject: "sub-9",
		Claims: map[string]interface{}{
			"email":          "mallory@example.com",
			"email_verified": false,
		},
	})
	require.NoError(t, err)
	assert.Empty(t, identity.Email)

	identity, err = identityFromPayload(&idtoken.Payload{Subject: "sub-9", Claims: map[string]interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, types.ExternalIdentity{Subject: "sub-9"}, identity)

	_, err = identityFromPayload(&idtoken.Payload{Claims: map[string]interface{}{}})
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}
