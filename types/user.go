package types

import "time"

// User represents an account on the site.
// An account signs in with a local password, a Google identity, or both.
type User struct {
	// ID is the unique identifier of the user.
	ID int64 `json:"id" db:"id"`

	// Username is the unique display and login name.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the local password.
	// Empty for accounts created through Google sign-in.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// GoogleID is the Google subject identifier linked to the account.
	// Empty when the account has no linked Google identity.
	GoogleID string `json:"-" db:"google_id"`

	// Email is the verified email reported by Google, if any.
	Email string `json:"email,omitempty" db:"email"`

	// ProfilePicture is the avatar URL reported by Google, if any.
	ProfilePicture string `json:"profile_picture,omitempty" db:"profile_picture"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasPassword reports whether the account can sign in with a local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
