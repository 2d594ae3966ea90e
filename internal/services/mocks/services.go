package mocks

import (
	"context"
	"io"

	"github.com/campusboard/server/internal/services"
	"github.com/stretchr/testify/mock"
)

// Transactor runs the unit of work directly against Repos. Commits and
// rollbacks are counted so tests can assert on them.
type Transactor struct {
	Repos     services.Repositories
	Commits   int
	Rollbacks int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(repos services.Repositories) error) error {
	if err := fn(t.Repos); err != nil {
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event services.Event) {
	m.Called(ctx, event)
}

type MessagePublisher struct {
	mock.Mock
}

func (m *MessagePublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	args := m.Called(ctx, channel, data, attrs)
	return args.String(0), args.Error(1)
}

type GenerativeClient struct {
	mock.Mock
}

func (m *GenerativeClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type PageStore struct {
	mock.Mock
}

func (m *PageStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *PageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}
