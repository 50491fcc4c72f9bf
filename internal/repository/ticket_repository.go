package repository

import (
	"context"
	"fmt"
	"time"

	"ticketya/internal/model"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// ListByOwner filters by lifecycle bucket: upcoming=true returns live
	// and payment-pending tickets, upcoming=false the spent ones, nil all.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, upcoming *bool) ([]*model.Ticket, error)
	// FindExpiredActive returns ACTIVE tickets past their deadline, for
	// the sweeper. Already-EXPIRED tickets never match, which is what
	// makes the sweep re-runnable.
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*model.Ticket, error)

	// Transaction methods
	CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error
	FindByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.Ticket, error)
	// ActivateForOrder flips an order's PENDING_PAYMENT tickets to ACTIVE
	// (cash settlement) and reports how many flipped.
	ActivateForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// CancelForOrder cancels an order's PENDING_PAYMENT tickets (failed
	// payment, lapsed reservation).
	CancelForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// MarkUsed admits a ticket: conditional on the row still being ACTIVE,
	// so exactly one of any number of concurrent scans wins.
	MarkUsed(ctx context.Context, tx pgx.Tx, id uuid.UUID, scannedAt time.Time) (bool, error)
	// ReassignOwner transfers ownership, conditional on the expected owner
	// and ACTIVE status (status itself is untouched).
	ReassignOwner(ctx context.Context, tx pgx.Tx, id, fromUserID, toUserID uuid.UUID) (bool, error)
	// ExpireIfActive is the sweeper's per-ticket transition.
	ExpireIfActive(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{pool: pool}
}

const ticketColumns = `id, ticket_type_id, tanda_id, event_id, order_id, owner_id,
	qr_code, qr_hash, status, purchase_date, expires_at, scanned_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.TicketTypeID,
		&ticket.TandaID,
		&ticket.EventID,
		&ticket.OrderID,
		&ticket.OwnerID,
		&ticket.QRCode,
		&ticket.QRHash,
		&ticket.Status,
		&ticket.PurchaseDate,
		&ticket.ExpiresAt,
		&ticket.ScannedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) CreateBatch(ctx context.Context, tx pgx.Tx, tickets []*model.Ticket) error {
	query := `
		INSERT INTO tickets (
			id, ticket_type_id, tanda_id, event_id, order_id, owner_id,
			qr_code, qr_hash, status, purchase_date, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, ticket := range tickets {
		if _, err := tx.Exec(ctx, query,
			ticket.ID, ticket.TicketTypeID, ticket.TandaID, ticket.EventID,
			ticket.OrderID, ticket.OwnerID, ticket.QRCode, ticket.QRHash,
			ticket.Status, ticket.PurchaseDate, ticket.ExpiresAt,
		); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
	}

	return nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE order_id = $1`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, upcoming *bool) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE owner_id = $1`
	args := []any{ownerID}

	if upcoming != nil {
		if *upcoming {
			query += ` AND ((status = 'ACTIVE' AND expires_at > $2) OR status = 'PENDING_PAYMENT')
				ORDER BY created_at DESC`
		} else {
			query += ` AND (status IN ('USED', 'EXPIRED', 'CANCELLED') OR expires_at <= $2)
				ORDER BY expires_at DESC`
		}
		args = append(args, time.Now().UTC())
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) ActivateForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE order_id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.TicketStatusActive, time.Now().UTC(), orderID, model.TicketStatusPendingPayment)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func (r *TicketRepositoryImpl) CancelForOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE order_id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.TicketStatusCancelled, time.Now().UTC(), orderID, model.TicketStatusPendingPayment)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func (r *TicketRepositoryImpl) MarkUsed(ctx context.Context, tx pgx.Tx, id uuid.UUID, scannedAt time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET status = $1, scanned_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.TicketStatusUsed, scannedAt, id, model.TicketStatusActive)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() == 1, nil
}

func (r *TicketRepositoryImpl) ReassignOwner(ctx context.Context, tx pgx.Tx, id, fromUserID, toUserID uuid.UUID) (bool, error) {
	query := `
		UPDATE tickets
		SET owner_id = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4 AND status = $5
	`

	result, err := tx.Exec(ctx, query, toUserID, time.Now().UTC(), id, fromUserID, model.TicketStatusActive)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() == 1, nil
}

func (r *TicketRepositoryImpl) ExpireIfActive(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.TicketStatusExpired, time.Now().UTC(), id, model.TicketStatusActive)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() == 1, nil
}

func (r *TicketRepositoryImpl) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.TicketStatusActive, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
