package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Date        time.Time  `json:"date" db:"date"`
	IsPublic    bool       `json:"is_public" db:"is_public"`
	AccessLink  *string    `json:"access_link,omitempty" db:"access_link"`
	OrganizerID uuid.UUID  `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	Tandas []*Tanda `json:"tandas,omitempty" db:"-"`
}

// TicketType is a named admission category. It carries no price of its own;
// pricing and quantities live on the tanda rows.
type TicketType struct {
	ID      uuid.UUID `json:"id" db:"id"`
	EventID uuid.UUID `json:"event_id" db:"event_id"`
	Name    string    `json:"name" db:"name"`
}

// Tanda is a time-boxed pricing window for an event.
type Tanda struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	EventID   uuid.UUID  `json:"event_id" db:"event_id"`
	Name      string     `json:"name" db:"name"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive  bool       `json:"is_active" db:"is_active"`

	TicketTypes []*TandaTicketType `json:"ticket_types,omitempty" db:"-"`
}

// TandaTicketType is one inventory ledger row: per-tanda, per-ticket-type
// price and quantities. sold_qty + available_qty == total_qty always.
type TandaTicketType struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	TandaID      uuid.UUID       `json:"tanda_id" db:"tanda_id"`
	TicketTypeID uuid.UUID       `json:"ticket_type_id" db:"ticket_type_id"`
	Price        decimal.Decimal `json:"price" db:"price"`
	TotalQty     int             `json:"total_qty" db:"total_qty"`
	SoldQty      int             `json:"sold_qty" db:"sold_qty"`
	AvailableQty int             `json:"available_qty" db:"available_qty"`
}

// Contains reports whether now falls inside the tanda's sale window.
// Nil bounds are open ends.
func (t *Tanda) Contains(now time.Time) bool {
	if t.StartDate != nil && now.Before(*t.StartDate) {
		return false
	}
	if t.EndDate != nil && now.After(*t.EndDate) {
		return false
	}
	return true
}

// ResolveActiveTanda picks the tanda purchases price against right now:
// the first whose window contains now, else the first flagged active, else
// the earliest by start date. Returns nil when the event has no tandas.
func ResolveActiveTanda(tandas []*Tanda, now time.Time) *Tanda {
	for _, tanda := range tandas {
		if tanda.Contains(now) {
			return tanda
		}
	}
	for _, tanda := range tandas {
		if tanda.IsActive {
			return tanda
		}
	}

	var earliest *Tanda
	for _, tanda := range tandas {
		if earliest == nil {
			earliest = tanda
			continue
		}
		if tanda.StartDate != nil && (earliest.StartDate == nil || tanda.StartDate.Before(*earliest.StartDate)) {
			earliest = tanda
		}
	}
	return earliest
}

// PriceFor returns the ledger row for a ticket type within this tanda.
func (t *Tanda) PriceFor(ticketTypeID uuid.UUID) (*TandaTicketType, bool) {
	for _, ttt := range t.TicketTypes {
		if ttt.TicketTypeID == ticketTypeID {
			return ttt, true
		}
	}
	return nil, false
}
