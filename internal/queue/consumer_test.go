package queue

import (
	"context"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
	"github.com/satvik-sharma-05/movieBooking/internal/usersync"
)

type dispatchFunc func(ctx context.Context, ev model.UserEvent) usersync.Result

func (f dispatchFunc) Dispatch(ctx context.Context, ev model.UserEvent) usersync.Result {
	return f(ctx, ev)
}

// recordingAck captures how a delivery was settled.
type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAck) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *recordingAck) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func newTestConsumer(res usersync.Result, got *model.UserEvent) *Consumer {
	d := dispatchFunc(func(_ context.Context, ev model.UserEvent) usersync.Result {
		if got != nil {
			*got = ev
		}
		return res
	})
	return NewConsumer("amqp://unused", d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConsumerHandle(t *testing.T) {
	body := []byte(`{"type":"user.created","data":{"id":"u_1"}}`)

	tests := []struct {
		name        string
		res         usersync.Result
		redelivered bool
		want        string
	}{
		{name: "success", res: usersync.Result{Success: true}, want: DispositionAck},
		{name: "terminal", res: usersync.Result{Error: "validation", Terminal: true}, want: DispositionAck},
		{name: "retryable first delivery", res: usersync.Result{Error: "store down", Retryable: true}, want: DispositionRequeue},
		{name: "retryable redelivered", res: usersync.Result{Error: "store down", Retryable: true}, redelivered: true, want: DispositionDeadLetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.UserEvent
			c := newTestConsumer(tt.res, &got)
			ack := &recordingAck{}

			disp := c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: tt.redelivered})
			assert.Equal(t, tt.want, disp)
			assert.Equal(t, "u_1", got.Data.ID)

			switch tt.want {
			case DispositionAck:
				assert.True(t, ack.acked)
			case DispositionRequeue:
				require.True(t, ack.nacked)
				assert.True(t, ack.requeue)
			case DispositionDeadLetter:
				require.True(t, ack.nacked)
				assert.False(t, ack.requeue)
			}
		})
	}
}

func TestConsumerHandle_BadBody(t *testing.T) {
	c := newTestConsumer(usersync.Result{Success: true}, nil)
	ack := &recordingAck{}

	disp := c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
	assert.Equal(t, DispositionDeadLetter, disp)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
