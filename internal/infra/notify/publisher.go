package notify

import (
	"context"
	"log/slog"
	"time"

	"unihaven/internal/pkg/config"
	"unihaven/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers a single outbox row to whatever sits behind it. The
// dispatcher retries, so implementations only need to report failure.
type Publisher interface {
	Publish(ctx context.Context, topic, recipient string, payload []byte) error
	Close() error
}

// NewPublisher selects the delivery backend from configuration. No broker URL
// means log-only delivery, which is what local development runs with.
func NewPublisher(cfg config.AMQPConfig, logger *slog.Logger) (Publisher, error) {
	if cfg.URL == "" {
		return NewLogPublisher(logger), nil
	}
	return NewAMQPPublisher(cfg)
}

// AMQPPublisher pushes notifications to a durable topic exchange. The routing
// key is the event topic, so consumers can bind per lifecycle event.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(cfg config.AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to dial amqp broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open amqp channel")
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to declare amqp exchange")
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: cfg.Exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic, recipient string, payload []byte) error {
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{"recipient": recipient},
		Body:         payload,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, topic, false, false, pub); err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	_ = p.channel.Close()
	return p.conn.Close()
}

// LogPublisher writes notifications to the structured log instead of a broker.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic, recipient string, payload []byte) error {
	p.logger.Info("notification delivered",
		slog.String("topic", topic),
		slog.String("recipient", recipient),
		slog.String("payload", string(payload)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
