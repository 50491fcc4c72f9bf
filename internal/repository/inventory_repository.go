package repository

import (
	"context"

	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository is the ledger over tanda_ticket_types rows. Reserve
// and Release are the only ways quantities move; both are single
// conditional updates so the check and the mutation cannot be separated by
// a concurrent writer.
type InventoryRepository interface {
	// AvailabilityForType sums the ledger across all tandas of one ticket
	// type (the TicketType-level view of the spec's quantities).
	AvailabilityForType(ctx context.Context, ticketTypeID uuid.UUID) (total, sold, available int, err error)

	// Transaction methods
	Reserve(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error
	Release(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error
}

type InventoryRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &InventoryRepositoryImpl{pool: pool}
}

func (r *InventoryRepositoryImpl) AvailabilityForType(ctx context.Context, ticketTypeID uuid.UUID) (int, int, int, error) {
	query := `
		SELECT COALESCE(SUM(total_qty), 0), COALESCE(SUM(sold_qty), 0), COALESCE(SUM(available_qty), 0)
		FROM tanda_ticket_types
		WHERE ticket_type_id = $1
	`

	var total, sold, available int
	err := r.pool.QueryRow(ctx, query, ticketTypeID).Scan(&total, &sold, &available)
	if err != nil {
		return 0, 0, 0, err
	}

	return total, sold, available, nil
}

func (r *InventoryRepositoryImpl) Reserve(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE tanda_ticket_types
		SET sold_qty = sold_qty + $1, available_qty = available_qty - $1
		WHERE tanda_id = $2 AND ticket_type_id = $3 AND available_qty >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, tandaID, ticketTypeID)
	if err != nil {
		return err
	}

	// zero rows: either the row is missing or available_qty < quantity;
	// a missing row would have failed price resolution earlier.
	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientInventory
	}

	return nil
}

func (r *InventoryRepositoryImpl) Release(ctx context.Context, tx pgx.Tx, tandaID, ticketTypeID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE tanda_ticket_types
		SET sold_qty = sold_qty - $1, available_qty = available_qty + $1
		WHERE tanda_id = $2 AND ticket_type_id = $3 AND sold_qty >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, tandaID, ticketTypeID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidInput
	}

	return nil
}
