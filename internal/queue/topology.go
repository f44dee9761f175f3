// Package queue carries user sync events over RabbitMQ when the webhook
// endpoint runs in queue mode.  The endpoint publishes, a background
// consumer runs the sync pipeline.
package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// UserEventsQueue receives verified user events.
	UserEventsQueue = "identity.user.events"
	// DeadLetterQueue holds events that failed after one redelivery or could
	// not be decoded.
	DeadLetterQueue = "identity.user.events.dead"
)

// declareTopology declares the dead-letter queue and the work queue routed to
// it.  Both are durable; declaring is idempotent.
func declareTopology(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterQueue, err)
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue,
	}
	if _, err := ch.QueueDeclare(UserEventsQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare %s: %w", UserEventsQueue, err)
	}
	return nil
}
