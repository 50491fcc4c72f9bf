package service

import (
	"context"

	"ticketya/internal/model"
	"ticketya/internal/repository"
)

type ReferralService interface {
	// Click records a visit through a referral link and returns the referral
	// so the caller can redirect to its event.
	Click(ctx context.Context, code string) (*model.Referral, error)
}

type ReferralServiceImpl struct {
	referrals repository.ReferralRepository
}

func NewReferralService(referrals repository.ReferralRepository) ReferralService {
	return &ReferralServiceImpl{referrals: referrals}
}

func (s *ReferralServiceImpl) Click(ctx context.Context, code string) (*model.Referral, error) {
	ref, err := s.referrals.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.referrals.IncrementClicks(ctx, ref.ID); err != nil {
		return nil, err
	}
	ref.ClickCount++
	return ref, nil
}
