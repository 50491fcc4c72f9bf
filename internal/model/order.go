package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodGateway PaymentMethod = "GATEWAY"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodGateway:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo encodes the order payment state machine. COMPLETED,
// FAILED and REFUNDED are terminal; REFUNDED is only ever reached by
// administrative action outside this service.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusCompleted:  {},
		PaymentStatusFailed:     {},
		PaymentStatusRefunded:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// Reservation deadlines: cash buyers get a week to show up and pay,
// gateway sessions are held for 15 minutes.
const (
	CashReservation    = 7 * 24 * time.Hour
	GatewayReservation = 15 * time.Minute
)

type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	EventID       uuid.UUID       `json:"event_id" db:"event_id"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	PaymentID     *string         `json:"payment_id,omitempty" db:"payment_id"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	ReservedUntil *time.Time      `json:"reserved_until,omitempty" db:"reserved_until"`
	ReferralID    *uuid.UUID      `json:"referral_id,omitempty" db:"referral_id"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Items []*OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem persists the ticket-type breakdown an order was priced against,
// so confirmation can mint tickets without trusting the webhook payload.
type OrderItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrderID      uuid.UUID       `json:"order_id" db:"order_id"`
	TicketTypeID uuid.UUID       `json:"ticket_type_id" db:"ticket_type_id"`
	TandaID      uuid.UUID       `json:"tanda_id" db:"tanda_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
}

type CreateOrderItem struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	EventID       uuid.UUID         `json:"event_id" binding:"required"`
	PaymentMethod PaymentMethod     `json:"payment_method" binding:"required"`
	ReferralCode  *string           `json:"referral_code,omitempty"`
	Items         []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// ConfirmationStatus is the gateway's verdict on a payment, mapped 1:1 from
// the webhook lookup. Cash settlement reuses StatusApproved.
type ConfirmationStatus string

const (
	ConfirmationApproved  ConfirmationStatus = "approved"
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationRejected  ConfirmationStatus = "rejected"
	ConfirmationCancelled ConfirmationStatus = "cancelled"
)

// PaymentConfirmation is one delivery of a payment outcome for an order.
// OrderID comes from the gateway's external_reference.
type PaymentConfirmation struct {
	OrderID   uuid.UUID          `json:"order_id"`
	PaymentID string             `json:"payment_id"`
	Status    ConfirmationStatus `json:"status"`
}
