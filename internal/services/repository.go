package services

import (
	"context"

	"github.com/campusboard/server/internal/store"
	"github.com/campusboard/server/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int64) error
}

// PostRepository defines persistence operations for posts on either board.
type PostRepository interface {
	List(ctx context.Context, board types.Board, limit int) ([]types.Post, error)
	Get(ctx context.Context, board types.Board, id int64) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) error
	Delete(ctx context.Context, board types.Board, id int64) error
	DeleteByUser(ctx context.Context, board types.Board, userID int64) (int64, error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByTarget(ctx context.Context, target types.CommentTarget) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	DeleteByTarget(ctx context.Context, target types.CommentTarget) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteOnPostsOwnedBy(ctx context.Context, board types.Board, userID int64) (int64, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
}

// Transactor runs fn against repositories that share one transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// NewRepositories binds the postgres repositories to db.
func NewRepositories(db store.DBTX) Repositories {
	return Repositories{
		Users:    store.NewUserRepository(db),
		Posts:    store.NewPostRepository(db),
		Comments: store.NewCommentRepository(db),
	}
}

type storeTransactor struct {
	tx *store.Transactor
}

// NewStoreTransactor adapts a store.Transactor to the services Transactor.
func NewStoreTransactor(tx *store.Transactor) Transactor {
	return storeTransactor{tx: tx}
}

func (t storeTransactor) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	return t.tx.WithinTx(ctx, func(q store.DBTX) error {
		return fn(NewRepositories(q))
	})
}
