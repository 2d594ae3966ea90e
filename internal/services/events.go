package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Content lifecycle event types.
const (
	EventUserRegistered = "user.registered"
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventCommentCreated = "comment.created"
)

const defaultPublishTimeout = 5 * time.Second

// Event describes a committed change to site content.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	UserID     int64     `json:"user_id"`
	Board      string    `json:"board,omitempty"`
	PostID     int64     `json:"post_id,omitempty"`
	CommentID  int64     `json:"comment_id,omitempty"`
}

// EventPublisher delivers events on a best-effort basis. Implementations
// must not block the caller for long and never report failure.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// MessagePublisher is the broker operation MQPublisher needs. *mq.MQ satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// MQPublisher encodes events as JSON and sends them to a broker channel.
type MQPublisher struct {
	broker  MessagePublisher
	channel string
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewMQPublisher(broker MessagePublisher, channel string, log logrus.FieldLogger) *MQPublisher {
	return &MQPublisher{
		broker:  broker,
		channel: channel,
		timeout: defaultPublishTimeout,
		log:     log,
	}
}

func (p *MQPublisher) Publish(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	entry := p.log.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"channel":    p.channel,
	})

	data, err := json.Marshal(event)
	if err != nil {
		entry.WithError(err).Error("encode event")
		return
	}

	// The request may finish before the broker answers.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	attrs := map[string]string{"type": event.Type}
	if _, err := p.broker.Publish(ctx, p.channel, data, attrs); err != nil {
		entry.WithError(err).Warn("publish event failed")
		return
	}
	entry.Debug("event published")
}
