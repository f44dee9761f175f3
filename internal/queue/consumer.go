package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/satvik-sharma-05/movieBooking/internal/metrics"
	"github.com/satvik-sharma-05/movieBooking/internal/model"
	"github.com/satvik-sharma-05/movieBooking/internal/usersync"
)

// Dispatcher runs one user event through the sync pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.UserEvent) usersync.Result
}

// Delivery dispositions, also used as the metrics label.
const (
	DispositionAck        = "ack"
	DispositionRequeue    = "requeue"
	DispositionDeadLetter = "dead_letter"
)

// Consumer reads UserEventsQueue and dispatches each event.
type Consumer struct {
	url      string
	dispatch Dispatcher
	log      *slog.Logger
	prefetch int
}

// NewConsumer returns a consumer for the broker at url.
func NewConsumer(url string, d Dispatcher, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{url: url, dispatch: d, log: logger.With("component", "queue-consumer"), prefetch: 20}
}

// Run connects, consumes and reconnects with backoff until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("rabbitmq: dial failed", "error", err, "retry_in", backoff)
			if !wait(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("rabbitmq: consume loop ended, reconnecting", "error", err)
		if !wait(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("rabbitmq: set QoS failed", "error", err)
	}
	if err := declareTopology(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(UserEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info("rabbitmq: consuming", "queue", UserEventsQueue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle settles one delivery.  Undecodable bodies are dead-lettered, terminal
// pipeline failures are acked, retryable ones are requeued once and then
// dead-lettered.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) string {
	var ev model.UserEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log.Error("rabbitmq: undecodable message", "message_id", d.MessageId, "error", err)
		return c.settle(d, DispositionDeadLetter)
	}

	res := c.dispatch.Dispatch(ctx, ev)
	disp := decide(res, d.Redelivered)
	if disp != DispositionAck || !res.Success {
		c.log.Warn("rabbitmq: event not applied",
			"message_id", d.MessageId, "type", ev.Type, "external_id", ev.Data.ID,
			"disposition", disp, "error", res.Error)
	}
	return c.settle(d, disp)
}

func decide(res usersync.Result, redelivered bool) string {
	switch {
	case res.Success, !res.Retryable:
		return DispositionAck
	case redelivered:
		return DispositionDeadLetter
	default:
		return DispositionRequeue
	}
}

func (c *Consumer) settle(d amqp.Delivery, disp string) string {
	var err error
	switch disp {
	case DispositionAck:
		err = d.Ack(false)
	case DispositionRequeue:
		err = d.Nack(false, true)
	default:
		err = d.Nack(false, false)
	}
	if err != nil {
		c.log.Error("rabbitmq: settle failed", "message_id", d.MessageId, "disposition", disp, "error", err)
	}
	metrics.QueueDeliveries.WithLabelValues(disp).Inc()
	return disp
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
