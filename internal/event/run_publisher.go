package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"policy-analytics/internal/models"
)

// RunCompletedEvent is the message published after each successful run.
type RunCompletedEvent struct {
	RunID           uuid.UUID            `json:"run_id"`
	CompletedAt     time.Time            `json:"completed_at"`
	TotalPolicies   int                  `json:"total_policies"`
	ExcludedRecords int                  `json:"excluded_records"`
	TotalPremium    float64              `json:"total_premium"`
	LossRatio       models.Ratio         `json:"loss_ratio"`
	CapitalStatus   models.CapitalStatus `json:"capital_status"`
	ArtifactDir     string               `json:"artifact_dir"`
}

// RunPublisher publishes run lifecycle events.
type RunPublisher struct {
	conn *RabbitMQConnection
}

func NewRunPublisher(conn *RabbitMQConnection) *RunPublisher {
	return &RunPublisher{conn: conn}
}

// PublishRunCompleted sends the event to the run event queue. Publishing is
// fire-and-forget from the pipeline's perspective.
func (p *RunPublisher) PublishRunCompleted(ctx context.Context, ev RunCompletedEvent) error {
	if ev.CompletedAt.IsZero() {
		ev.CompletedAt = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(ctx,
		"",            // default exchange
		RunEventQueue, // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.RunID.String(),
			Timestamp:    ev.CompletedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish run event %s: %w", ev.RunID, err)
	}

	slog.Info("Run event published", "run_id", ev.RunID, "queue", RunEventQueue)
	return nil
}
