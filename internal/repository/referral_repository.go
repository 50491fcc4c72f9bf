package repository

import (
	"context"

	"ticketya/internal/model"
	"ticketya/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ReferralRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Referral, error)
	IncrementClicks(ctx context.Context, id uuid.UUID) error

	// Transaction methods
	FindByIDWithVendor(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Referral, error)
	// RecordConversion bumps the referral's conversion counter and the
	// vendor's accumulated earnings in the order-completion transaction.
	RecordConversion(ctx context.Context, tx pgx.Tx, referralID uuid.UUID, commission decimal.Decimal) error
}

type ReferralRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReferralRepository(pool *pgxpool.Pool) ReferralRepository {
	return &ReferralRepositoryImpl{pool: pool}
}

func (r *ReferralRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Referral, error) {
	query := `
		SELECT id, vendor_id, event_id, custom_code, click_count, conversion_count, created_at
		FROM referrals
		WHERE custom_code = $1
	`

	var ref model.Referral
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&ref.ID,
		&ref.VendorID,
		&ref.EventID,
		&ref.CustomCode,
		&ref.ClickCount,
		&ref.ConversionCount,
		&ref.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReferralNotFound
		}
		return nil, err
	}

	return &ref, nil
}

func (r *ReferralRepositoryImpl) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE referrals
		SET click_count = click_count + 1
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrReferralNotFound
	}

	return nil
}

func (r *ReferralRepositoryImpl) FindByIDWithVendor(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Referral, error) {
	query := `
		SELECT r.id, r.vendor_id, r.event_id, r.custom_code, r.click_count, r.conversion_count, r.created_at,
			v.id, v.user_id, v.commission_percent, v.total_earnings, v.created_at
		FROM referrals r
		JOIN vendors v ON v.id = r.vendor_id
		WHERE r.id = $1
	`

	var ref model.Referral
	var vendor model.Vendor
	err := tx.QueryRow(ctx, query, id).Scan(
		&ref.ID,
		&ref.VendorID,
		&ref.EventID,
		&ref.CustomCode,
		&ref.ClickCount,
		&ref.ConversionCount,
		&ref.CreatedAt,
		&vendor.ID,
		&vendor.UserID,
		&vendor.CommissionPercent,
		&vendor.TotalEarnings,
		&vendor.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReferralNotFound
		}
		return nil, err
	}

	ref.Vendor = &vendor
	return &ref, nil
}

func (r *ReferralRepositoryImpl) RecordConversion(ctx context.Context, tx pgx.Tx, referralID uuid.UUID, commission decimal.Decimal) error {
	query := `
		UPDATE referrals
		SET conversion_count = conversion_count + 1
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, referralID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrReferralNotFound
	}

	earningsQuery := `
		UPDATE vendors
		SET total_earnings = total_earnings + $1
		WHERE id = (SELECT vendor_id FROM referrals WHERE id = $2)
	`

	result, err = tx.Exec(ctx, earningsQuery, commission, referralID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrVendorNotFound
	}

	return nil
}
