package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/campusboard/server/config"
	"github.com/campusboard/server/types"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// ErrNotConfigured is returned by NewGoogleProvider without client credentials.
var ErrNotConfigured = errors.New("google oauth is not configured")

// ErrInvalidIDToken is returned when the ID token is missing or does not verify.
var ErrInvalidIDToken = errors.New("invalid id token")

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleProvider runs the OpenID Connect authorization code flow against Google.
type GoogleProvider struct {
	config   oauth2.Config
	validate validateFunc
}

func NewGoogleProvider(cfg config.GoogleConfig) (*GoogleProvider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	return &GoogleProvider{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		validate: idtoken.Validate,
	}, nil
}

// AuthCodeURL returns the consent page URL for state, binding nonce to the ID token.
func (p *GoogleProvider) AuthCodeURL(state, nonce string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("nonce", nonce))
}

// Exchange trades code for tokens and returns the verified identity.
// The ID token must be addressed to this client and carry nonce.
func (p *GoogleProvider) Exchange(ctx context.Context, code, nonce string) (types.ExternalIdentity, error) {
	if strings.TrimSpace(code) == "" {
		return types.ExternalIdentity{}, errors.New("missing authorization code")
	}

	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return types.ExternalIdentity{}, fmt.Errorf("exchange code: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return types.ExternalIdentity{}, fmt.Errorf("%w: missing from token response", ErrInvalidIDToken)
	}

	payload, err := p.validate(ctx, rawIDToken, p.config.ClientID)
	if err != nil {
		return types.ExternalIdentity{}, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	tokenNonce, _ := payload.Claims["nonce"].(string)
	if nonce == "" || subtle.ConstantTimeCompare([]byte(tokenNonce), []byte(nonce)) != 1 {
		return types.ExternalIdentity{}, fmt.Errorf("%w: nonce mismatch", ErrInvalidIDToken)
	}

	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (types.ExternalIdentity, error) {
	if strings.TrimSpace(payload.Subject) == "" {
		return types.ExternalIdentity{}, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}

	claim := func(name string) string {
		value, _ := payload.Claims[name].(string)
		return strings.TrimSpace(value)
	}

	identity := types.ExternalIdentity{
		Subject: payload.Subject,
		Name:    claim("name"),
		Picture: claim("picture"),
	}
	// Unverified addresses are ignored.
	if verified, ok := payload.Claims["email_verified"].(bool); !ok || verified {
		identity.Email = claim("email")
	}
	return identity, nil
}
