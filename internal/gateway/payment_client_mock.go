package gateway

import (
	"context"
	"sync"

	"ticketya/pkg/apperrors"
)

// PaymentClientMock records created preferences and serves canned payments.
type PaymentClientMock struct {
	mu          sync.Mutex
	Preferences map[string]CreatePreferenceRequest
	Payments    map[string]*Payment
}

func NewPaymentClientMock() *PaymentClientMock {
	return &PaymentClientMock{
		Preferences: make(map[string]CreatePreferenceRequest),
		Payments:    make(map[string]*Payment),
	}
}

func (c *PaymentClientMock) CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*Preference, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := "pref-" + req.ExternalReference
	c.Preferences[id] = req

	return &Preference{ID: id, InitPoint: "https://gateway.test/checkout/" + id}, nil
}

func (c *PaymentClientMock) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payment, ok := c.Payments[paymentID]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	return payment, nil
}
