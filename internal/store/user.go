package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campusboard/server/types"
)

const userColumns = `id, username, password_hash, google_id, email, profile_picture, created_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts user and returns it with the generated id and timestamp.
// Empty optional fields are stored as NULL.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, google_id, email, profile_picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		nullString(user.PasswordHash),
		nullString(user.GoogleID),
		nullString(user.Email),
		nullString(user.ProfilePicture),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func scanUser(row *sql.Row) (types.User, error) {
	var (
		user                                    types.User
		passwordHash, googleID, email, picture sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&passwordHash,
		&googleID,
		&email,
		&picture,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	user.Email = email.String
	user.ProfilePicture = picture.String
	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
