package worker

import (
	"encoding/json"

	"user_service/internal/observability"
	"user_service/internal/queue"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartAuditConsumer consumes user lifecycle events and writes audit log lines.
// Malformed payloads are dropped without requeue; processable ones are acked
// after logging.
func StartAuditConsumer(conn *amqp.Connection, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Consumer %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Consumer %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.UserEventsQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Consumer %d failed to start consuming messages: %v", id, err)
	}

	logrus.Infof("Audit consumer %d started", id)

	for msg := range msgs {
		observability.GlobalMetrics.QueueMessagesConsumed.WithLabelValues(queue.UserEventsQueue).Inc()

		var event queue.UserEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logrus.WithError(err).Error("invalid event payload")
			msg.Nack(false, false)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"event":     event.Event,
			"user_id":   event.UserID,
			"email":     event.Email,
			"timestamp": event.Timestamp,
		}).Info("audit: user event")

		msg.Ack(false)
	}
}
