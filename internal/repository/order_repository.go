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

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error)
	FindItems(ctx context.Context, orderID uuid.UUID) ([]*model.OrderItem, error)
	SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error
	// FindOverdueReservations returns PENDING orders whose reservation
	// deadline has passed, for the sweeper.
	FindOverdueReservations(ctx context.Context, now time.Time, limit int) ([]*model.Order, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error)
	CreateItems(ctx context.Context, tx pgx.Tx, items []*model.OrderItem) error
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)
	FindItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.OrderItem, error)
	UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus, paymentID *string, completedAt *time.Time) error
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{pool: pool}
}

const orderColumns = `id, user_id, event_id, payment_method, payment_status, payment_id,
	total_amount, reserved_until, referral_id, completed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.EventID,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.PaymentID,
		&order.TotalAmount,
		&order.ReservedUntil,
		&order.ReferralID,
		&order.CompletedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error) {
	query := `
		INSERT INTO orders (
			id, user_id, event_id, payment_method, payment_status,
			total_amount, reserved_until, referral_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + orderColumns

	created, err := scanOrder(tx.QueryRow(ctx, query,
		order.ID, order.UserID, order.EventID, order.PaymentMethod,
		order.PaymentStatus, order.TotalAmount, order.ReservedUntil, order.ReferralID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return created, nil
}

func (r *OrderRepositoryImpl) CreateItems(ctx context.Context, tx pgx.Tx, items []*model.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, ticket_type_id, tanda_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, item := range items {
		if _, err := tx.Exec(ctx, query,
			item.ID, item.OrderID, item.TicketTypeID, item.TandaID, item.Quantity, item.UnitPrice,
		); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) FindItems(ctx context.Context, orderID uuid.UUID) ([]*model.OrderItem, error) {
	return r.findItems(ctx, r.pool, orderID)
}

func (r *OrderRepositoryImpl) FindItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]*model.OrderItem, error) {
	return r.findItems(ctx, tx, orderID)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *OrderRepositoryImpl) findItems(ctx context.Context, q queryer, orderID uuid.UUID) ([]*model.OrderItem, error) {
	query := `
		SELECT id, order_id, ticket_type_id, tanda_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.OrderItem, 0)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.TicketTypeID,
			&item.TandaID,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *OrderRepositoryImpl) UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus, paymentID *string, completedAt *time.Time) error {
	query := `
		UPDATE orders
		SET payment_status = $1,
			payment_id = COALESCE($2, payment_id),
			completed_at = COALESCE($3, completed_at),
			updated_at = $4
		WHERE id = $5
	`

	result, err := tx.Exec(ctx, query, status, paymentID, completedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepositoryImpl) SetPaymentID(ctx context.Context, id uuid.UUID, paymentID string) error {
	query := `
		UPDATE orders
		SET payment_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, paymentID, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepositoryImpl) FindOverdueReservations(ctx context.Context, now time.Time, limit int) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_status = $1 AND reserved_until IS NOT NULL AND reserved_until <= $2
		ORDER BY reserved_until ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.PaymentStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
