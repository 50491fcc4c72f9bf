package repository

import (
	"context"

	"ticketya/internal/model"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// FindWithTandas loads the event aggregate with its pricing windows and
	// their ledger rows, ordered by window start so tanda resolution can
	// fall back to the earliest.
	FindWithTandas(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindTicketType(ctx context.Context, id uuid.UUID) (*model.TicketType, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{pool: pool}
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, title, date, is_public, access_link, organizer_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.IsPublic,
		&event.AccessLink,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindWithTandas(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tandas, err := r.findTandas(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Tandas = tandas

	return event, nil
}

func (r *EventRepositoryImpl) findTandas(ctx context.Context, eventID uuid.UUID) ([]*model.Tanda, error) {
	query := `
		SELECT id, event_id, name, start_date, end_date, is_active
		FROM tandas
		WHERE event_id = $1
		ORDER BY start_date ASC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tandas := make([]*model.Tanda, 0)
	for rows.Next() {
		var tanda model.Tanda
		err := rows.Scan(
			&tanda.ID,
			&tanda.EventID,
			&tanda.Name,
			&tanda.StartDate,
			&tanda.EndDate,
			&tanda.IsActive,
		)
		if err != nil {
			return nil, err
		}
		tandas = append(tandas, &tanda)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, tanda := range tandas {
		ledger, err := r.findLedgerRows(ctx, tanda.ID)
		if err != nil {
			return nil, err
		}
		tanda.TicketTypes = ledger
	}

	return tandas, nil
}

func (r *EventRepositoryImpl) findLedgerRows(ctx context.Context, tandaID uuid.UUID) ([]*model.TandaTicketType, error) {
	query := `
		SELECT id, tanda_id, ticket_type_id, price, total_qty, sold_qty, available_qty
		FROM tanda_ticket_types
		WHERE tanda_id = $1
	`

	rows, err := r.pool.Query(ctx, query, tandaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make([]*model.TandaTicketType, 0)
	for rows.Next() {
		var row model.TandaTicketType
		err := rows.Scan(
			&row.ID,
			&row.TandaID,
			&row.TicketTypeID,
			&row.Price,
			&row.TotalQty,
			&row.SoldQty,
			&row.AvailableQty,
		)
		if err != nil {
			return nil, err
		}
		ledger = append(ledger, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (r *EventRepositoryImpl) FindTicketType(ctx context.Context, id uuid.UUID) (*model.TicketType, error) {
	query := `
		SELECT id, event_id, name
		FROM ticket_types
		WHERE id = $1
	`

	var tt model.TicketType
	err := r.pool.QueryRow(ctx, query, id).Scan(&tt.ID, &tt.EventID, &tt.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketTypeNotFound
		}
		return nil, err
	}

	return &tt, nil
}
