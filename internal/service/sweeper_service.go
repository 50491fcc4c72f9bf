package service

import (
	"context"
	"time"

	"ticketya/internal/database"
	"ticketya/internal/model"
	"ticketya/internal/repository"
	"ticketya/monitoring"
	"ticketya/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// sweepBatchSize bounds how many rows one sweep pass touches.
const sweepBatchSize = 500

type SweepReport struct {
	TicketsExpired int `json:"tickets_expired"`
	OrdersLapsed   int `json:"orders_lapsed"`
}

// SweeperService enforces lifecycle deadlines lazily missed by the write
// paths: tickets past their redemption deadline become EXPIRED with their
// quantity returned to the ledger, and PENDING orders whose reservation
// lapsed are failed with their inventory returned.
type SweeperService interface {
	Sweep(ctx context.Context) (*SweepReport, error)
	// Run sweeps on the given interval until the context is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

type SweeperServiceImpl struct {
	txRunner  database.TxRunner
	tickets   repository.TicketRepository
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
}

func NewSweeperService(
	txRunner database.TxRunner,
	tickets repository.TicketRepository,
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
) SweeperService {
	return &SweeperServiceImpl{
		txRunner:  txRunner,
		tickets:   tickets,
		orders:    orders,
		inventory: inventory,
	}
}

func (s *SweeperServiceImpl) Sweep(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{}
	now := time.Now().UTC()

	expired, err := s.tickets.FindExpiredActive(ctx, now, sweepBatchSize)
	if err != nil {
		return nil, err
	}
	for _, ticket := range expired {
		// one transaction per ticket; a failure on one row must not roll
		// back or block the rest of the batch
		err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
			flipped, err := s.tickets.ExpireIfActive(ctx, tx, ticket.ID)
			if err != nil {
				return err
			}
			if !flipped {
				// lost the race to a scan or an earlier sweep pass
				return nil
			}
			if err := s.inventory.Release(ctx, tx, ticket.TandaID, ticket.TicketTypeID, 1); err != nil {
				return err
			}
			report.TicketsExpired++
			return nil
		})
		if err != nil {
			logger.WithComponent("sweeper").Error("failed to expire ticket",
				zap.String("ticket_id", ticket.ID.String()), zap.Error(err))
		}
	}

	overdue, err := s.orders.FindOverdueReservations(ctx, now, sweepBatchSize)
	if err != nil {
		return nil, err
	}
	for _, order := range overdue {
		lapsed, err := s.lapseOrder(ctx, order)
		if err != nil {
			logger.WithComponent("sweeper").Error("failed to lapse order",
				zap.String("order_id", order.ID.String()), zap.Error(err))
			continue
		}
		if lapsed {
			report.OrdersLapsed++
		}
	}

	monitoring.TicketsExpired.Add(float64(report.TicketsExpired))
	monitoring.OrdersLapsed.Add(float64(report.OrdersLapsed))

	if report.TicketsExpired > 0 || report.OrdersLapsed > 0 {
		logger.WithComponent("sweeper").Info("sweep completed",
			zap.Int("tickets_expired", report.TicketsExpired),
			zap.Int("orders_lapsed", report.OrdersLapsed))
	}

	return report, nil
}

// lapseOrder fails one overdue PENDING order: status to FAILED, reserved
// inventory back on the ledger, any pre-minted tickets cancelled.
func (s *SweeperServiceImpl) lapseOrder(ctx context.Context, order *model.Order) (bool, error) {
	lapsed := false
	err := s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		// re-read under lock; a payment may have landed since the scan
		locked, err := s.orders.FindByIDForUpdate(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if locked.PaymentStatus != model.PaymentStatusPending {
			return nil
		}
		lapsed = true

		if err := s.orders.UpdatePaymentStatus(ctx, tx, order.ID, model.PaymentStatusFailed, nil, nil); err != nil {
			return err
		}

		items, err := s.orders.FindItemsTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.inventory.Release(ctx, tx, item.TandaID, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		_, err = s.tickets.CancelForOrder(ctx, tx, order.ID)
		return err
	})
	return lapsed, err
}

func (s *SweeperServiceImpl) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				logger.WithComponent("sweeper").Error("sweep pass failed", zap.Error(err))
			}
		}
	}
}
