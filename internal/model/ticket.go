package model

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusPendingPayment TicketStatus = "PENDING_PAYMENT"
	TicketStatusActive         TicketStatus = "ACTIVE"
	TicketStatusUsed           TicketStatus = "USED"
	TicketStatusExpired        TicketStatus = "EXPIRED"
	TicketStatusCancelled      TicketStatus = "CANCELLED"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusPendingPayment, TicketStatusActive, TicketStatusUsed,
		TicketStatusExpired, TicketStatusCancelled:
		return true
	}
	return false
}

// ExpiryBusinessDays is how long a ticket stays redeemable after purchase.
// Uniform regardless of event date, per current product policy.
const ExpiryBusinessDays = 48

type Ticket struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	TicketTypeID uuid.UUID    `json:"ticket_type_id" db:"ticket_type_id"`
	TandaID      uuid.UUID    `json:"tanda_id" db:"tanda_id"`
	EventID      uuid.UUID    `json:"event_id" db:"event_id"`
	OrderID      uuid.UUID    `json:"order_id" db:"order_id"`
	OwnerID      uuid.UUID    `json:"owner_id" db:"owner_id"`
	QRCode       string       `json:"qr_code" db:"qr_code"`
	QRHash       string       `json:"qr_hash" db:"qr_hash"`
	Status       TicketStatus `json:"status" db:"status"`
	PurchaseDate time.Time    `json:"purchase_date" db:"purchase_date"`
	ExpiresAt    time.Time    `json:"expires_at" db:"expires_at"`
	ScannedAt    *time.Time   `json:"scanned_at,omitempty" db:"scanned_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// IsTransferable: only a live, unexpired ticket can change hands.
func (t *Ticket) IsTransferable(now time.Time) bool {
	return t.Status == TicketStatusActive && now.Before(t.ExpiresAt)
}

// TicketValidation is the immutable audit row for one admission attempt.
type TicketValidation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TicketID    uuid.UUID `json:"ticket_id" db:"ticket_id"`
	ValidatorID uuid.UUID `json:"validator_id" db:"validator_id"`
	IsValid     bool      `json:"is_valid" db:"is_valid"`
	Reason      *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type TransferMethod string

const (
	TransferMethodEmail TransferMethod = "EMAIL"
	TransferMethodQR    TransferMethod = "QR"
)

type TransferStatus string

// Transfers are synchronous; the only status ever written is COMPLETED.
const TransferStatusCompleted TransferStatus = "COMPLETED"

type TicketTransfer struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	TicketID    uuid.UUID      `json:"ticket_id" db:"ticket_id"`
	FromUserID  uuid.UUID      `json:"from_user_id" db:"from_user_id"`
	ToUserID    uuid.UUID      `json:"to_user_id" db:"to_user_id"`
	ToEmail     string         `json:"to_email" db:"to_email"`
	Method      TransferMethod `json:"method" db:"method"`
	Status      TransferStatus `json:"status" db:"status"`
	CompletedAt time.Time      `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

type TransferRequest struct {
	TicketID uuid.UUID      `json:"ticket_id" binding:"required"`
	ToEmail  string         `json:"to_email,omitempty"`
	Method   TransferMethod `json:"method,omitempty"`
}

// TicketContext is the minimal event/owner view door staff see with a scan
// outcome.
type TicketContext struct {
	ID        uuid.UUID   `json:"id"`
	Event     *Event      `json:"event,omitempty"`
	Owner     UserSummary `json:"owner"`
	ScannedAt *time.Time  `json:"scanned_at,omitempty"`
}

// ScanResult is always returned, never thrown: door staff need a
// deterministic answer for every scan including garbage input.
type ScanResult struct {
	IsValid bool           `json:"is_valid"`
	Reason  string         `json:"reason,omitempty"`
	Ticket  *TicketContext `json:"ticket,omitempty"`
}

// Scan rejection reasons, in precedence order.
const (
	ScanReasonInvalidCode    = "invalid code"
	ScanReasonTicketNotFound = "ticket not found"
	ScanReasonAlreadyUsed    = "already used"
	ScanReasonExpired        = "expired"
	ScanReasonCancelled      = "cancelled"
	ScanReasonPaymentPending = "payment pending"
)
