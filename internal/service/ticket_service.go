package service

import (
	"context"

	"ticketya/internal/model"
	"ticketya/internal/repository"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
)

type TicketService interface {
	// ListByOwner returns the caller's tickets, optionally filtered to the
	// upcoming (usable) or past (spent) bucket.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, upcoming *bool) ([]*model.Ticket, error)
	// GetByID is restricted to the current owner; organizers and admins can
	// inspect any ticket.
	GetByID(ctx context.Context, userID uuid.UUID, role model.Role, ticketID uuid.UUID) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	tickets repository.TicketRepository
}

func NewTicketService(tickets repository.TicketRepository) TicketService {
	return &TicketServiceImpl{tickets: tickets}
}

func (s *TicketServiceImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, upcoming *bool) ([]*model.Ticket, error) {
	return s.tickets.ListByOwner(ctx, ownerID, upcoming)
}

func (s *TicketServiceImpl) GetByID(ctx context.Context, userID uuid.UUID, role model.Role, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.OwnerID != userID && role != model.RoleOrganizer && role != model.RoleAdmin {
		return nil, apperrors.ErrNotTicketOwner
	}
	return ticket, nil
}
