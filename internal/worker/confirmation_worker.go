package worker

import (
	"context"
	"errors"

	"ticketya/internal/queue"
	"ticketya/internal/service"
	"ticketya/pkg/apperrors"
	"ticketya/pkg/logger"

	"go.uber.org/zap"
)

type ConfirmationWorker interface {
	Start(ctx context.Context) error
}

type ConfirmationWorkerImpl struct {
	service service.OrderService
	queue   queue.ConfirmationQueue
}

func NewConfirmationWorker(service service.OrderService, queue queue.ConfirmationQueue) ConfirmationWorker {
	return &ConfirmationWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *ConfirmationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeConfirmations(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.service.ApplyConfirmation(ctx, msg.Data)
			switch {
			case err == nil:
				msg.Ack()
			case errors.Is(err, apperrors.ErrOrderNotFound):
				// the webhook referenced an order we never created;
				// retrying will not change that
				logger.WithComponent("worker").Warn("confirmation for unknown order, dropping",
					zap.String("order_id", msg.Data.OrderID.String()),
					zap.String("payment_id", msg.Data.PaymentID))
				msg.Nack(false)
			default:
				logger.WithComponent("worker").Error("apply confirmation failed, will retry",
					zap.String("order_id", msg.Data.OrderID.String()),
					zap.Error(err))
				msg.Nack(true)
			}
		}
	}()
	return nil
}
