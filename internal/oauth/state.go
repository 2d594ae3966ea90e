// Package oauth implements the Google sign-in flow.
package oauth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultStateTTL = 10 * time.Minute

// ErrInvalidState is returned when a callback state does not verify.
var ErrInvalidState = errors.New("invalid oauth state")

type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// StateSigner issues and checks the signed state parameter that ties an
// authorization request to the session nonce.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret), ttl: defaultStateTTL, now: time.Now}
}

// Sign returns an HS256 token carrying nonce.
func (s *StateSigner) Sign(nonce string) (string, error) {
	now := s.now()
	claims := stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of state and that it carries nonce.
func (s *StateSigner) Verify(state, nonce string) error {
	if state == "" || nonce == "" {
		return fmt.Errorf("%w: missing state or nonce", ErrInvalidState)
	}

	claims := stateClaims{}
	token, err := jwt.ParseWithClaims(state, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !token.Valid {
		return ErrInvalidState
	}
	if subtle.ConstantTimeCompare([]byte(claims.Nonce), []byte(nonce)) != 1 {
		return fmt.Errorf("%w: nonce mismatch", ErrInvalidState)
	}
	return nil
}
