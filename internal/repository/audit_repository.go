package repository

import (
	"context"
	"fmt"

	"ticketya/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ValidationRepository appends and reads the immutable admission audit
// trail.
type ValidationRepository interface {
	// Create outside a transaction, for best-effort failed-attempt audits.
	Create(ctx context.Context, v *model.TicketValidation) error
	// CreateTx participates in the admission transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, v *model.TicketValidation) error
	HistoryByValidator(ctx context.Context, validatorID uuid.UUID, limit int) ([]*model.TicketValidation, error)
}

type ValidationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewValidationRepository(pool *pgxpool.Pool) ValidationRepository {
	return &ValidationRepositoryImpl{pool: pool}
}

const validationInsert = `
	INSERT INTO ticket_validations (id, ticket_id, validator_id, is_valid, reason)
	VALUES ($1, $2, $3, $4, $5)
`

func (r *ValidationRepositoryImpl) Create(ctx context.Context, v *model.TicketValidation) error {
	if _, err := r.pool.Exec(ctx, validationInsert, v.ID, v.TicketID, v.ValidatorID, v.IsValid, v.Reason); err != nil {
		return fmt.Errorf("failed to record validation: %w", err)
	}
	return nil
}

func (r *ValidationRepositoryImpl) CreateTx(ctx context.Context, tx pgx.Tx, v *model.TicketValidation) error {
	if _, err := tx.Exec(ctx, validationInsert, v.ID, v.TicketID, v.ValidatorID, v.IsValid, v.Reason); err != nil {
		return fmt.Errorf("failed to record validation: %w", err)
	}
	return nil
}

func (r *ValidationRepositoryImpl) HistoryByValidator(ctx context.Context, validatorID uuid.UUID, limit int) ([]*model.TicketValidation, error) {
	query := `
		SELECT id, ticket_id, validator_id, is_valid, reason, created_at
		FROM ticket_validations
		WHERE validator_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, validatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	validations := make([]*model.TicketValidation, 0)
	for rows.Next() {
		var v model.TicketValidation
		err := rows.Scan(&v.ID, &v.TicketID, &v.ValidatorID, &v.IsValid, &v.Reason, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		validations = append(validations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return validations, nil
}

// TransferRepository appends and reads the immutable transfer audit trail.
type TransferRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *model.TicketTransfer) error
	HistoryByUser(ctx context.Context, userID uuid.UUID, limit int) (sent, received []*model.TicketTransfer, err error)
}

type TransferRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTransferRepository(pool *pgxpool.Pool) TransferRepository {
	return &TransferRepositoryImpl{pool: pool}
}

func (r *TransferRepositoryImpl) CreateTx(ctx context.Context, tx pgx.Tx, t *model.TicketTransfer) error {
	query := `
		INSERT INTO ticket_transfers (id, ticket_id, from_user_id, to_user_id, to_email, method, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := tx.Exec(ctx, query,
		t.ID, t.TicketID, t.FromUserID, t.ToUserID, t.ToEmail, t.Method, t.Status, t.CompletedAt,
	); err != nil {
		return fmt.Errorf("failed to record transfer: %w", err)
	}
	return nil
}

func (r *TransferRepositoryImpl) HistoryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.TicketTransfer, []*model.TicketTransfer, error) {
	sent, err := r.findByColumn(ctx, "from_user_id", userID, limit)
	if err != nil {
		return nil, nil, err
	}

	received, err := r.findByColumn(ctx, "to_user_id", userID, limit)
	if err != nil {
		return nil, nil, err
	}

	return sent, received, nil
}

func (r *TransferRepositoryImpl) findByColumn(ctx context.Context, column string, userID uuid.UUID, limit int) ([]*model.TicketTransfer, error) {
	query := fmt.Sprintf(`
		SELECT id, ticket_id, from_user_id, to_user_id, to_email, method, status, completed_at, created_at
		FROM ticket_transfers
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, column)

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := make([]*model.TicketTransfer, 0)
	for rows.Next() {
		var t model.TicketTransfer
		err := rows.Scan(&t.ID, &t.TicketID, &t.FromUserID, &t.ToUserID, &t.ToEmail, &t.Method, &t.Status, &t.CompletedAt, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transfers, nil
}
