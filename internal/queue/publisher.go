package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"user_service/internal/observability"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventUserCreated = "user.created"

// UserEvent is the payload published to the user_events queue.
type UserEvent struct {
	Event     string    `json:"event"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher publishes user lifecycle events. Publishing is best-effort:
// callers log failures but never fail the request on a broker error.
type EventPublisher struct {
	conn *amqp.Connection
}

func NewEventPublisher(conn *amqp.Connection) *EventPublisher {
	return &EventPublisher{conn: conn}
}

func (p *EventPublisher) PublishUserCreated(ctx context.Context, userID int, email string) error {
	event := UserEvent{
		Event:     EventUserCreated,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	ch, err := CreateChannel(p.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.PublishWithContext(
		ctx,
		"",              // exchange
		UserEventsQueue, // routing key (queue name)
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish user event: %w", err)
	}

	observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(UserEventsQueue).Inc()
	return nil
}
