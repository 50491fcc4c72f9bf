package service

import (
	"context"
	"testing"

	"ticketya/internal/model"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketGetByID_OwnerOnly(t *testing.T) {
	tickets := &MockTicketRepository{}
	svc := NewTicketService(tickets)
	ctx := context.Background()
	ownerID := uuid.New()
	ticket := &model.Ticket{ID: uuid.New(), OwnerID: ownerID, Status: model.TicketStatusActive}

	tickets.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

	got, err := svc.GetByID(ctx, ownerID, model.RoleCustomer, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = svc.GetByID(ctx, uuid.New(), model.RoleCustomer, ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotTicketOwner)
}

func TestTicketGetByID_OrganizerBypass(t *testing.T) {
	tickets := &MockTicketRepository{}
	svc := NewTicketService(tickets)
	ctx := context.Background()
	ticket := &model.Ticket{ID: uuid.New(), OwnerID: uuid.New(), Status: model.TicketStatusActive}

	tickets.On("FindByID", ctx, ticket.ID).Return(ticket, nil)

	_, err := svc.GetByID(ctx, uuid.New(), model.RoleOrganizer, ticket.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.New(), model.RoleAdmin, ticket.ID)
	require.NoError(t, err)
}
