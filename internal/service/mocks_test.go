package service

import (
	"context"
	"errors"
	"time"

	"ticketya/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var errBoom = errors.New("boom")

// fakeTxRunner runs the transaction body with a nil tx; repository calls in
// these tests are mocked, so no real transaction is needed.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindItems(ctx context.Context, orderID uuid.UUID) ([]*model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error {
	return m.Called(ctx, id, paymentID).Error(0)
}

func (m *MockOrderRepository) FindOverdueReservations(ctx context.Context, now time.Time, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, tx, order)
	if fn, ok := args.Get(0).(func(*model.Order) *model.Order); ok {
		return fn(order), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []*model.OrderItem) error {
	return m.Called(ctx, tx, items).Error(0)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus, paymentID *string, completedAt *time.Time) error {
	return m.Called(ctx, tx, id, status, paymentID, completedAt).Error(0)
}

type MockTicketRepository struct{ mock.Mock }

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, upcoming *bool) ([]*model.Ticket, error) {
	args := m.Called(ctx, ownerID, upcoming)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*model.Ticket, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error {
	return m.Called(ctx, tx, tickets).Error(0)
}

func (m *MockTicketRepository) FindByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.Ticket, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ActivateForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) CancelForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) MarkUsed(ctx context.Context, tx pgx.Tx, id uuid.UUID, scannedAt time.Time) (bool, error) {
	args := m.Called(ctx, tx, id, scannedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ReassignOwner(ctx context.Context, tx pgx.Tx, id, fromUserID, toUserID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id, fromUserID, toUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ExpireIfActive(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) AvailabilityForType(ctx context.Context, ticketTypeID uuid.UUID) (int, int, int, error) {
	args := m.Called(ctx, ticketTypeID)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockInventoryRepository) Reserve(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error {
	return m.Called(ctx, tx, tandaID, ticketTypeID, quantity).Error(0)
}

func (m *MockInventoryRepository) Release(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error {
	return m.Called(ctx, tx, tandaID, ticketTypeID, quantity).Error(0)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindWithTandas(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindTicketType(ctx context.Context, id uuid.UUID) (*model.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketType), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockReferralRepository struct{ mock.Mock }

func (m *MockReferralRepository) FindByCode(ctx context.Context, code string) (*model.Referral, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Referral), args.Error(1)
}

func (m *MockReferralRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReferralRepository) FindByIDWithVendor(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Referral, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Referral), args.Error(1)
}

func (m *MockReferralRepository) RecordConversion(ctx context.Context, tx pgx.Tx, referralID uuid.UUID, commission decimal.Decimal) error {
	return m.Called(ctx, tx, referralID, commission).Error(0)
}

type MockValidationRepository struct{ mock.Mock }

func (m *MockValidationRepository) Create(ctx context.Context, v *model.TicketValidation) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockValidationRepository) CreateTx(ctx context.Context, tx pgx.Tx, v *model.TicketValidation) error {
	return m.Called(ctx, tx, v).Error(0)
}

func (m *MockValidationRepository) HistoryByValidator(ctx context.Context, validatorID uuid.UUID, limit int) ([]*model.TicketValidation, error) {
	args := m.Called(ctx, validatorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TicketValidation), args.Error(1)
}

type MockTransferRepository struct{ mock.Mock }

func (m *MockTransferRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *model.TicketTransfer) error {
	return m.Called(ctx, tx, t).Error(0)
}

func (m *MockTransferRepository) HistoryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.TicketTransfer, []*model.TicketTransfer, error) {
	args := m.Called(ctx, userID, limit)
	var sent, received []*model.TicketTransfer
	if args.Get(0) != nil {
		sent = args.Get(0).([]*model.TicketTransfer)
	}
	if args.Get(1) != nil {
		received = args.Get(1).([]*model.TicketTransfer)
	}
	return sent, received, args.Error(2)
}
