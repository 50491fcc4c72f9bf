package service

import (
	"context"
	"time"

	"ticketya/internal/model"
	"ticketya/internal/repository"

	"github.com/google/uuid"
)

type TicketTypeAvailability struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Name         string    `json:"name"`
	Total        int       `json:"total"`
	Sold         int       `json:"sold"`
	Available    int       `json:"available"`
}

type EventService interface {
	// GetWithPricing returns the event with its tandas and marks which tanda
	// a purchase right now would be priced against.
	GetWithPricing(ctx context.Context, id uuid.UUID) (*model.Event, *model.Tanda, error)
	// Availability is the cross-tanda quantity view for one ticket type.
	Availability(ctx context.Context, ticketTypeID uuid.UUID) (*TicketTypeAvailability, error)
}

type EventServiceImpl struct {
	events    repository.EventRepository
	inventory repository.InventoryRepository
}

func NewEventService(events repository.EventRepository, inventory repository.InventoryRepository) EventService {
	return &EventServiceImpl{events: events, inventory: inventory}
}

func (s *EventServiceImpl) GetWithPricing(ctx context.Context, id uuid.UUID) (*model.Event, *model.Tanda, error) {
	event, err := s.events.FindWithTandas(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	active := model.ResolveActiveTanda(event.Tandas, time.Now().UTC())
	return event, active, nil
}

func (s *EventServiceImpl) Availability(ctx context.Context, ticketTypeID uuid.UUID) (*TicketTypeAvailability, error) {
	tt, err := s.events.FindTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}

	total, sold, available, err := s.inventory.AvailabilityForType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}

	return &TicketTypeAvailability{
		TicketTypeID: tt.ID,
		Name:         tt.Name,
		Total:        total,
		Sold:         sold,
		Available:    available,
	}, nil
}
