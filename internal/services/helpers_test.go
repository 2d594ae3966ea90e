package services_test

import (
	"testing"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/services/mocks"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fixture struct {
	users    *mocks.UserRepository
	posts    *mocks.PostRepository
	comments *mocks.CommentRepository
	events   *mocks.EventPublisher
	tx       *mocks.Transactor
	log      *logrus.Logger
	hook     *logtest.Hook
}

func newFixture() *fixture {
	log, hook := logtest.NewNullLogger()
	f := &fixture{
		users:    new(mocks.UserRepository),
		posts:    new(mocks.PostRepository),
		comments: new(mocks.CommentRepository),
		events:   new(mocks.EventPublisher),
		log:      log,
		hook:     hook,
	}
	f.tx = &mocks.Transactor{Repos: f.repos()}
	return f
}

func (f *fixture) repos() services.Repositories {
	return services.Repositories{Users: f.users, Posts: f.posts, Comments: f.comments}
}

func (f *fixture) authService() *services.AuthService {
	return services.NewAuthService(f.users, f.tx, f.events, f.log)
}

func (f *fixture) boardService() *services.BoardService {
	return services.NewBoardService(f.repos(), f.tx, f.events, f.log)
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.posts.AssertExpectations(t)
	f.comments.AssertExpectations(t)
	f.events.AssertExpectations(t)
}
