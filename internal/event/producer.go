// Package event publishes domain events to Kafka. Publishing is best effort:
// a broker outage must never fail the request that triggered the event.
package event

import (
	"context"
	"log/slog"

	"github.com/sheking94/not-todo-api/pkg/kafka"
	"github.com/sheking94/not-todo-api/pkg/logger"
)

const (
	TopicUserRegistered = "todo.user.registered"
	TopicSessionCreated = "todo.session.created"
	TopicSessionRevoked = "todo.session.revoked"
)

const source = "not-todo-api"

// Producer publishes domain events. A nil Producer is valid and publishes
// nothing, which keeps tests free of broker dependencies.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewProducer wraps a Kafka producer for domain event publishing.
func NewProducer(p *kafka.Producer, l *slog.Logger) *Producer {
	return &Producer{producer: p, logger: l}
}

// UserRegisteredPayload is the body of a user.registered event.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// SessionPayload is the body of session lifecycle events.
type SessionPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// UserRegistered publishes a user.registered event.
func (p *Producer) UserRegistered(ctx context.Context, payload UserRegisteredPayload) {
	p.publish(ctx, TopicUserRegistered, "user.registered", payload.UserID, "user", payload)
}

// SessionCreated publishes a session.created event.
func (p *Producer) SessionCreated(ctx context.Context, payload SessionPayload) {
	p.publish(ctx, TopicSessionCreated, "session.created", payload.SessionID, "session", payload)
}

// SessionRevoked publishes a session.revoked event.
func (p *Producer) SessionRevoked(ctx context.Context, payload SessionPayload) {
	p.publish(ctx, TopicSessionRevoked, "session.revoked", payload.SessionID, "session", payload)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, payload any) {
	if p == nil || p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
