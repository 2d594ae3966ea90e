package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusboard/server/internal/store"
	"github.com/campusboard/server/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength    = 3
	maxUsernameLength    = 80
	minPasswordLength    = 6
	maxPasswordBytes     = 72
	maxUsernameAttempts  = 5000
	googleUsernamePrefix = "google_user_"

	invalidCredentialsMessage = "Invalid username or password."
)

// AuthService registers and authenticates users, and links Google
// identities to local accounts.
type AuthService struct {
	users  UserRepository
	tx     Transactor
	events EventPublisher
	log    logrus.FieldLogger
}

func NewAuthService(users UserRepository, tx Transactor, events EventPublisher, log logrus.FieldLogger) *AuthService {
	if events == nil {
		events = NopPublisher{}
	}
	return &AuthService{users: users, tx: tx, events: events, log: log}
}

// Register creates a local account. No session is created.
func (s *AuthService) Register(ctx context.Context, username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	switch {
	case username == "" || password == "":
		return types.User{}, newError(ErrValidation, "Username and password are required.")
	case len([]rune(username)) < minUsernameLength:
		return types.User{}, newError(ErrValidation, fmt.Sprintf("Username must be at least %d characters.", minUsernameLength))
	case len([]rune(username)) > maxUsernameLength:
		return types.User{}, newError(ErrValidation, fmt.Sprintf("Username must be at most %d characters.", maxUsernameLength))
	case len([]rune(password)) < minPasswordLength:
		return types.User{}, newError(ErrValidation, fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	// bcrypt rejects longer inputs.
	case len(password) > maxPasswordBytes:
		return types.User{}, newError(ErrValidation, fmt.Sprintf("Password must be at most %d bytes.", maxPasswordBytes))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, wrapError(ErrInternal, "Failed to create user.", err)
	}

	var user types.User
	err = s.tx.WithinTx(ctx, func(repos Repositories) error {
		exists, err := repos.Users.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return newError(ErrConflict, "Username is already taken.")
		}
		user, err = repos.Users.Create(ctx, types.User{
			Username:     username,
			PasswordHash: string(hashed),
		})
		if errors.Is(err, store.ErrDuplicate) {
			return wrapError(ErrConflict, "Username is already taken.", err)
		}
		return err
	})
	if err != nil {
		return types.User{}, mapRepoError(err, "User not found.")
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	s.events.Publish(ctx, Event{Type: EventUserRegistered, UserID: user.ID})
	return user, nil
}

// Authenticate verifies local credentials. Unknown users, accounts without
// a password and wrong passwords all yield the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return types.User{}, newError(ErrAuthentication, invalidCredentialsMessage)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, newError(ErrAuthentication, invalidCredentialsMessage)
		}
		return types.User{}, mapRepoError(err, invalidCredentialsMessage)
	}
	if !user.HasPassword() {
		return types.User{}, newError(ErrAuthentication, invalidCredentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return types.User{}, newError(ErrAuthentication, invalidCredentialsMessage)
		}
		return types.User{}, wrapError(ErrInternal, "Failed to authenticate.", err)
	}
	return user, nil
}

// SignInWithGoogle returns the account linked to identity, creating one
// on first sign-in. created reports whether a new account was made.
func (s *AuthService) SignInWithGoogle(ctx context.Context, identity types.ExternalIdentity) (user types.User, created bool, err error) {
	subject := strings.TrimSpace(identity.Subject)
	if subject == "" {
		return types.User{}, false, newError(ErrAuthentication, "Google sign-in failed.")
	}

	err = s.tx.WithinTx(ctx, func(repos Repositories) error {
		existing, err := repos.Users.GetByGoogleID(ctx, subject)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		email := strings.TrimSpace(identity.Email)
		username, err := resolveUsername(ctx, repos.Users, candidateUsername(email, subject))
		if err != nil {
			return err
		}

		if email != "" {
			owner, err := repos.Users.GetByEmail(ctx, email)
			switch {
			case err == nil && owner.GoogleID != subject:
				email = ""
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		user, err = repos.Users.Create(ctx, types.User{
			Username:       username,
			GoogleID:       subject,
			Email:          email,
			ProfilePicture: strings.TrimSpace(identity.Picture),
		})
		if errors.Is(err, store.ErrDuplicate) {
			return wrapError(ErrConflict, "Could not create an account for this Google identity.", err)
		}
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return types.User{}, false, mapRepoError(err, "User not found.")
	}

	if created {
		s.log.WithFields(logrus.Fields{"user_id": user.ID, "provider": "google"}).Info("user registered")
		s.events.Publish(ctx, Event{Type: EventUserRegistered, UserID: user.ID})
	}
	return user, created, nil
}

// CurrentUser loads the account bound to a session.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (types.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return types.User{}, mapRepoError(err, "User not found.")
	}
	return user, nil
}

// candidateUsername derives the preferred username for a new Google account.
func candidateUsername(email, subject string) string {
	local, _, _ := strings.Cut(email, "@")
	if local = strings.TrimSpace(local); local != "" {
		return local
	}
	return googleUsernamePrefix + subject
}

// resolveUsername returns base if free, otherwise the first free base_N.
func resolveUsername(ctx context.Context, users UserRepository, base string) (string, error) {
	exists, err := users.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	for i := 1; i <= maxUsernameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		exists, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", newError(ErrConflict, "Could not find a free username.")
}
