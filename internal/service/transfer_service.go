package service

import (
	"context"
	"time"

	"ticketya/internal/database"
	"ticketya/internal/model"
	"ticketya/internal/qrtoken"
	"ticketya/internal/repository"
	"ticketya/monitoring"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransferService interface {
	// TransferByEmail hands a ticket to the user registered under the given
	// email address.
	TransferByEmail(ctx context.Context, fromUserID, ticketID uuid.UUID, toEmail string) (*model.TicketTransfer, error)
	// TransferByPersonalQR hands a ticket to the user identified by a scanned
	// personal QR token.
	TransferByPersonalQR(ctx context.Context, fromUserID, ticketID uuid.UUID, personalToken string) (*model.TicketTransfer, error)
	History(ctx context.Context, userID uuid.UUID, limit int) (sent, received []*model.TicketTransfer, err error)
}

type TransferServiceImpl struct {
	txRunner  database.TxRunner
	tickets   repository.TicketRepository
	users     repository.UserRepository
	transfers repository.TransferRepository
	codec     *qrtoken.Codec
}

func NewTransferService(
	txRunner database.TxRunner,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	transfers repository.TransferRepository,
	codec *qrtoken.Codec,
) TransferService {
	return &TransferServiceImpl{
		txRunner:  txRunner,
		tickets:   tickets,
		users:     users,
		transfers: transfers,
		codec:     codec,
	}
}

func (s *TransferServiceImpl) TransferByEmail(ctx context.Context, fromUserID, ticketID uuid.UUID, toEmail string) (*model.TicketTransfer, error) {
	if toEmail == "" {
		return nil, apperrors.ErrInvalidInput
	}

	recipient, err := s.users.FindByEmail(ctx, toEmail)
	if err != nil {
		return nil, err
	}

	return s.transfer(ctx, fromUserID, ticketID, recipient, model.TransferMethodEmail)
}

func (s *TransferServiceImpl) TransferByPersonalQR(ctx context.Context, fromUserID, ticketID uuid.UUID, personalToken string) (*model.TicketTransfer, error) {
	recipientID, ok := s.codec.VerifyPersonalToken(personalToken)
	if !ok {
		return nil, apperrors.ErrInvalidPersonalQR
	}
	parsed, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, apperrors.ErrInvalidPersonalQR
	}

	recipient, err := s.users.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}

	return s.transfer(ctx, fromUserID, ticketID, recipient, model.TransferMethodQR)
}

func (s *TransferServiceImpl) transfer(ctx context.Context, fromUserID, ticketID uuid.UUID, recipient *model.User, method model.TransferMethod) (*model.TicketTransfer, error) {
	if recipient.ID == fromUserID {
		return nil, apperrors.ErrSelfTransfer
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.OwnerID != fromUserID {
		return nil, apperrors.ErrNotTicketOwner
	}

	now := time.Now().UTC()
	if !ticket.IsTransferable(now) {
		if now.After(ticket.ExpiresAt) {
			return nil, apperrors.ErrTicketExpired
		}
		if ticket.Status == model.TicketStatusUsed {
			return nil, apperrors.ErrTicketAlreadyUsed
		}
		return nil, apperrors.ErrTicketNotTransferable
	}

	transfer := &model.TicketTransfer{
		ID:          uuid.New(),
		TicketID:    ticketID,
		FromUserID:  fromUserID,
		ToUserID:    recipient.ID,
		ToEmail:     recipient.Email,
		Method:      method,
		Status:      model.TransferStatusCompleted,
		CompletedAt: now,
	}

	err = s.txRunner.WithinTx(ctx, func(tx pgx.Tx) error {
		// conditional on owner and ACTIVE, so two concurrent transfers of
		// the same ticket cannot both win
		moved, err := s.tickets.ReassignOwner(ctx, tx, ticketID, fromUserID, recipient.ID)
		if err != nil {
			return err
		}
		if !moved {
			return apperrors.ErrTicketNotTransferable
		}

		return s.transfers.CreateTx(ctx, tx, transfer)
	})
	if err != nil {
		return nil, err
	}

	monitoring.TransfersCompleted.WithLabelValues(string(method)).Inc()
	return transfer, nil
}

func (s *TransferServiceImpl) History(ctx context.Context, userID uuid.UUID, limit int) ([]*model.TicketTransfer, []*model.TicketTransfer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.transfers.HistoryByUser(ctx, userID, limit)
}
