package service

import (
	"context"
	"testing"

	"ticketya/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sweeperFixture struct {
	tickets   *MockTicketRepository
	orders    *MockOrderRepository
	inventory *MockInventoryRepository
	service   SweeperService
}

func newSweeperFixture() *sweeperFixture {
	f := &sweeperFixture{
		tickets:   &MockTicketRepository{},
		orders:    &MockOrderRepository{},
		inventory: &MockInventoryRepository{},
	}
	f.service = NewSweeperService(fakeTxRunner{}, f.tickets, f.orders, f.inventory)
	return f
}

func TestSweep_ExpiresTickets(t *testing.T) {
	f := newSweeperFixture()
	ctx := context.Background()
	tandaID := uuid.New()
	ticketTypeID := uuid.New()
	t1 := &model.Ticket{ID: uuid.New(), TandaID: tandaID, TicketTypeID: ticketTypeID, Status: model.TicketStatusActive}
	t2 := &model.Ticket{ID: uuid.New(), TandaID: tandaID, TicketTypeID: ticketTypeID, Status: model.TicketStatusActive}

	f.tickets.On("FindExpiredActive", ctx, mock.Anything, mock.Anything).Return([]*model.Ticket{t1, t2}, nil)
	f.tickets.On("ExpireIfActive", ctx, mock.Anything, t1.ID).Return(true, nil)
	// t2 was scanned between the read and the flip; the conditional update
	// misses and the ticket stays USED
	f.tickets.On("ExpireIfActive", ctx, mock.Anything, t2.ID).Return(false, nil)
	f.inventory.On("Release", ctx, mock.Anything, tandaID, ticketTypeID, 1).Return(nil)
	f.orders.On("FindOverdueReservations", ctx, mock.Anything, mock.Anything).Return([]*model.Order{}, nil)

	report, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TicketsExpired)
	assert.Equal(t, 0, report.OrdersLapsed)

	// only the ticket that actually flipped returns its seat
	f.inventory.AssertNumberOfCalls(t, "Release", 1)
}

func TestSweep_LapsesOverdueOrder(t *testing.T) {
	f := newSweeperFixture()
	ctx := context.Background()
	orderID := uuid.New()
	tandaID := uuid.New()
	ticketTypeID := uuid.New()
	overdue := &model.Order{ID: orderID, PaymentStatus: model.PaymentStatusPending}

	f.tickets.On("FindExpiredActive", ctx, mock.Anything, mock.Anything).Return([]*model.Ticket{}, nil)
	f.orders.On("FindOverdueReservations", ctx, mock.Anything, mock.Anything).Return([]*model.Order{overdue}, nil)
	f.orders.On("FindByIDForUpdate", ctx, mock.Anything, orderID).Return(overdue, nil)
	f.orders.On("UpdatePaymentStatus", ctx, mock.Anything, orderID,
		model.PaymentStatusFailed, mock.Anything, mock.Anything).Return(nil)
	f.orders.On("FindItemsTx", ctx, mock.Anything, orderID).Return([]*model.OrderItem{
		{OrderID: orderID, TandaID: tandaID, TicketTypeID: ticketTypeID, Quantity: 2},
	}, nil)
	f.inventory.On("Release", ctx, mock.Anything, tandaID, ticketTypeID, 2).Return(nil)
	f.tickets.On("CancelForOrder", ctx, mock.Anything, orderID).Return(int64(2), nil)

	report, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrdersLapsed)

	f.inventory.AssertCalled(t, "Release", ctx, mock.Anything, tandaID, ticketTypeID, 2)
}

func TestSweep_SkipsOrderPaidSinceScan(t *testing.T) {
	f := newSweeperFixture()
	ctx := context.Background()
	orderID := uuid.New()
	scanned := &model.Order{ID: orderID, PaymentStatus: model.PaymentStatusPending}
	// by the time the row lock is taken, a confirmation completed the order
	locked := &model.Order{ID: orderID, PaymentStatus: model.PaymentStatusCompleted}

	f.tickets.On("FindExpiredActive", ctx, mock.Anything, mock.Anything).Return([]*model.Ticket{}, nil)
	f.orders.On("FindOverdueReservations", ctx, mock.Anything, mock.Anything).Return([]*model.Order{scanned}, nil)
	f.orders.On("FindByIDForUpdate", ctx, mock.Anything, orderID).Return(locked, nil)

	report, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.OrdersLapsed)

	f.orders.AssertNotCalled(t, "UpdatePaymentStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "Release",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	f := newSweeperFixture()
	ctx := context.Background()
	bad := &model.Ticket{ID: uuid.New()}
	good := &model.Ticket{ID: uuid.New()}

	f.tickets.On("FindExpiredActive", ctx, mock.Anything, mock.Anything).Return([]*model.Ticket{bad, good}, nil)
	f.tickets.On("ExpireIfActive", ctx, mock.Anything, bad.ID).Return(false, errBoom)
	f.tickets.On("ExpireIfActive", ctx, mock.Anything, good.ID).Return(true, nil)
	f.inventory.On("Release", ctx, mock.Anything, good.TandaID, good.TicketTypeID, 1).Return(nil)
	f.orders.On("FindOverdueReservations", ctx, mock.Anything, mock.Anything).Return([]*model.Order{}, nil)

	report, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TicketsExpired)
}

func TestSweep_EmptyBacklog(t *testing.T) {
	f := newSweeperFixture()
	ctx := context.Background()

	f.tickets.On("FindExpiredActive", ctx, mock.Anything, mock.Anything).Return([]*model.Ticket{}, nil)
	f.orders.On("FindOverdueReservations", ctx, mock.Anything, mock.Anything).Return([]*model.Order{}, nil)

	report, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TicketsExpired)
	assert.Equal(t, 0, report.OrdersLapsed)
}
