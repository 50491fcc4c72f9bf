package service

import (
	"context"
	"time"

	"ticketya/internal/database"
	"ticketya/internal/model"
	"ticketya/internal/qrtoken"
	"ticketya/internal/repository"
	"ticketya/monitoring"
	"ticketya/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AdmissionService interface {
	// Scan decides admission for a raw QR payload. It always returns a
	// ScanResult; the error return is for infrastructure failures only.
	Scan(ctx context.Context, validatorID uuid.UUID, rawCode string) (*model.ScanResult, error)
	ScanHistory(ctx context.Context, validatorID uuid.UUID, limit int) ([]*model.TicketValidation, error)
}

type AdmissionServiceImpl struct {
	txRunner    database.TxRunner
	tickets     repository.TicketRepository
	events      repository.EventRepository
	users       repository.UserRepository
	validations repository.ValidationRepository
	codec       *qrtoken.Codec
}

func NewAdmissionService(
	txRunner database.TxRunner,
	tickets repository.TicketRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	validations repository.ValidationRepository,
	codec *qrtoken.Codec,
) AdmissionService {
	return &AdmissionServiceImpl{
		txRunner:    txRunner,
		tickets:     tickets,
		events:      events,
		users:       users,
		validations: validations,
		codec:       codec,
	}
}

func (s *AdmissionServiceImpl) Scan(ctx context.Context, validatorID uuid.UUID, rawCode string) (*model.ScanResult, error) {
	claims, ok := s.codec.VerifyTicketToken(rawCode)
	if !ok {
		monitoring.ScansTotal.WithLabelValues("rejected").Inc()
		return reject(model.ScanReasonInvalidCode, nil), nil
	}

	ticketID, err := uuid.Parse(claims.TicketID)
	if err != nil {
		monitoring.ScansTotal.WithLabelValues("rejected").Inc()
		return reject(model.ScanReasonInvalidCode, nil), nil
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		// a valid signature over a ticket we do not have means the row was
		// deleted or the token came from another environment
		monitoring.ScansTotal.WithLabelValues("rejected").Inc()
		return reject(model.ScanReasonTicketNotFound, nil), nil
	}

	now := time.Now().UTC()
	if reason, rejected := rejectionReason(ticket, now); rejected {
		s.auditFailure(ctx, ticket.ID, validatorID, reason)
		monitoring.ScansTotal.WithLabelValues("rejected").Inc()
		res := reject(reason, nil)
		res.Ticket = s.ticketContext(ctx, ticket)
		return res, nil
	}

	// Admission and its audit row commit together. The conditional update is
	// what guarantees a single winner when the same code is scanned at two
	// doors at once.
	admitted := false
	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		won, err := s.tickets.MarkUsed(ctx, tx, ticket.ID, now)
		if err != nil {
			return err
		}
		admitted = won
		if !won {
			return nil
		}

		return s.validations.CreateTx(ctx, tx, &model.TicketValidation{
			ID:          uuid.New(),
			TicketID:    ticket.ID,
			ValidatorID: validatorID,
			IsValid:     true,
		})
	})
	if err != nil {
		return nil, err
	}

	if !admitted {
		// lost the race; the other scan flipped it to USED first
		s.auditFailure(ctx, ticket.ID, validatorID, model.ScanReasonAlreadyUsed)
		monitoring.ScansTotal.WithLabelValues("rejected").Inc()
		res := reject(model.ScanReasonAlreadyUsed, nil)
		res.Ticket = s.ticketContext(ctx, ticket)
		return res, nil
	}

	ticket.Status = model.TicketStatusUsed
	ticket.ScannedAt = &now
	monitoring.ScansTotal.WithLabelValues("admitted").Inc()
	return &model.ScanResult{
		IsValid: true,
		Ticket:  s.ticketContext(ctx, ticket),
	}, nil
}

// rejectionReason applies the precedence order: a used ticket reports
// "already used" even when it is also past its deadline.
func rejectionReason(ticket *model.Ticket, now time.Time) (string, bool) {
	switch {
	case ticket.Status == model.TicketStatusUsed:
		return model.ScanReasonAlreadyUsed, true
	case ticket.Status == model.TicketStatusExpired || now.After(ticket.ExpiresAt):
		return model.ScanReasonExpired, true
	case ticket.Status == model.TicketStatusCancelled:
		return model.ScanReasonCancelled, true
	case ticket.Status == model.TicketStatusPendingPayment:
		return model.ScanReasonPaymentPending, true
	}
	return "", false
}

func reject(reason string, ticket *model.TicketContext) *model.ScanResult {
	return &model.ScanResult{IsValid: false, Reason: reason, Ticket: ticket}
}

// auditFailure records a rejected attempt. Best effort: audit trouble must
// never turn a clean rejection into a 500 at the door.
func (s *AdmissionServiceImpl) auditFailure(ctx context.Context, ticketID, validatorID uuid.UUID, reason string) {
	err := s.validations.Create(ctx, &model.TicketValidation{
		ID:          uuid.New(),
		TicketID:    ticketID,
		ValidatorID: validatorID,
		IsValid:     false,
		Reason:      &reason,
	})
	if err != nil {
		logger.WithComponent("admission").Warn("failed to audit rejected scan",
			zap.String("ticket_id", ticketID.String()), zap.Error(err))
	}
}

// ticketContext assembles the event/owner view door staff see. Lookups are
// best effort; a missing join never blocks the verdict.
func (s *AdmissionServiceImpl) ticketContext(ctx context.Context, ticket *model.Ticket) *model.TicketContext {
	tc := &model.TicketContext{
		ID:        ticket.ID,
		ScannedAt: ticket.ScannedAt,
	}

	if event, err := s.events.FindByID(ctx, ticket.EventID); err == nil {
		tc.Event = event
	}
	if owner, err := s.users.FindByID(ctx, ticket.OwnerID); err == nil {
		tc.Owner = owner.Summary()
	}

	return tc
}

func (s *AdmissionServiceImpl) ScanHistory(ctx context.Context, validatorID uuid.UUID, limit int) ([]*model.TicketValidation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.validations.HistoryByValidator(ctx, validatorID, limit)
}
