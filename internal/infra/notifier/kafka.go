// Package notifier publishes customer notifications to the external delivery
// pipeline. Notification failures are logged and dropped: they must never
// abort or roll back an admission or fulfillment transaction.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"rental-storefront/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Notification struct {
	CustomerID  uuid.UUID         `json:"customer_id"`
	TemplateKey string            `json:"template_key"`
	Message     string            `json:"message"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	SentAt      time.Time         `json:"sent_at"`
}

type KafkaNotifier struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaNotifier(cfg config.KafkaConfig) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaNotifier{
		writer: writer,
		topic:  cfg.NotificationsTopic,
	}
}

// Notify is fire-and-forget: errors are logged, never returned to admission
// paths.
func (n *KafkaNotifier) Notify(ctx context.Context, customerID uuid.UUID, templateKey, message string, metadata map[string]string) {
	payload := Notification{
		CustomerID:  customerID,
		TemplateKey: templateKey,
		Message:     message,
		Metadata:    metadata,
		SentAt:      time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal notification", "template", templateKey, "error", err)
		return
	}

	msg := kafka.Message{
		Topic: n.topic,
		Key:   []byte(customerID.String()),
		Value: data,
		Time:  time.Now(),
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		slog.Warn("failed to publish notification",
			"template", templateKey, "customer_id", customerID, "error", err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
