package queue

import (
	"context"

	"ticketya/internal/model"
)

// Delivery wraps one confirmation with its acknowledgement hooks.
type Delivery struct {
	Data *model.PaymentConfirmation
	Ack  func()
	Nack func(requeue bool)
}

// ConfirmationQueue moves gateway payment outcomes from the webhook handler
// to the worker that applies them. Delivery is at-least-once; the confirm
// path is idempotent, so replays are harmless.
type ConfirmationQueue interface {
	PublishConfirmation(ctx context.Context, conf *model.PaymentConfirmation) error
	SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error)
}

// MemoryConfirmationQueue backs the queue with a Go channel, for tests and
// single-node runs.
type MemoryConfirmationQueue struct {
	ch chan *model.PaymentConfirmation
}

func NewMemoryConfirmationQueue(bufferSize int) ConfirmationQueue {
	return &MemoryConfirmationQueue{
		ch: make(chan *model.PaymentConfirmation, bufferSize),
	}
}

func (q *MemoryConfirmationQueue) PublishConfirmation(ctx context.Context, conf *model.PaymentConfirmation) error {
	select {
	case q.ch <- conf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryConfirmationQueue) SubscribeConfirmations(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case conf, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: conf,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- conf
						}
					},
				}
			}
		}
	}()

	return out, nil
}
