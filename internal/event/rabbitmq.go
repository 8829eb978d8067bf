// Package event publishes run lifecycle events to RabbitMQ so downstream
// consumers (report mailers, alerting) can react without polling the
// warehouse.
package event

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"policy-analytics/internal/config"
)

// RunEventQueue receives one message per completed pipeline run.
const RunEventQueue = "analytics_run_events"

type RabbitMQConnection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// ConnectRabbitMQ establishes a connection and declares the run event queue.
func ConnectRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQConnection, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		RunEventQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", RunEventQueue, err)
	}

	return &RabbitMQConnection{Connection: conn, Channel: ch}, nil
}

func (c *RabbitMQConnection) Close() error {
	if c.Channel != nil {
		c.Channel.Close()
	}
	if c.Connection != nil {
		return c.Connection.Close()
	}
	return nil
}
