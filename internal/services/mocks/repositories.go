// Package mocks provides testify mocks of the services dependencies.
package mocks

import (
	"context"

	"github.com/campusboard/server/types"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (types.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (types.User, error) {
	args := m.Called(ctx, googleID)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	if fn, ok := args.Get(0).(func(context.Context, string) bool); ok {
		return fn(ctx, username), args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) List(ctx context.Context, board types.Board, limit int) ([]types.Post, error) {
	args := m.Called(ctx, board, limit)
	posts, _ := args.Get(0).([]types.Post)
	return posts, args.Error(1)
}

func (m *PostRepository) Get(ctx context.Context, board types.Board, id int64) (types.Post, error) {
	args := m.Called(ctx, board, id)
	return args.Get(0).(types.Post), args.Error(1)
}

func (m *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(types.Post), args.Error(1)
}

func (m *PostRepository) Update(ctx context.Context, post types.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepository) Delete(ctx context.Context, board types.Board, id int64) error {
	args := m.Called(ctx, board, id)
	return args.Error(0)
}

func (m *PostRepository) DeleteByUser(ctx context.Context, board types.Board, userID int64) (int64, error) {
	args := m.Called(ctx, board, userID)
	return args.Get(0).(int64), args.Error(1)
}

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListByTarget(ctx context.Context, target types.CommentTarget) ([]types.Comment, error) {
	args := m.Called(ctx, target)
	comments, _ := args.Get(0).([]types.Comment)
	return comments, args.Error(1)
}

func (m *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(types.Comment), args.Error(1)
}

func (m *CommentRepository) DeleteByTarget(ctx context.Context, target types.CommentTarget) (int64, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommentRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommentRepository) DeleteOnPostsOwnedBy(ctx context.Context, board types.Board, userID int64) (int64, error) {
	args := m.Called(ctx, board, userID)
	return args.Get(0).(int64), args.Error(1)
}
