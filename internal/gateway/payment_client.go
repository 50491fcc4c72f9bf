// Package gateway is the payment-gateway collaborator boundary. The core
// only ever sees two calls: create a checkout preference for a fixed item
// list, and look a payment up by id. Everything else about the gateway's
// protocol stays on the other side of this package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type PreferenceItem struct {
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreatePreferenceRequest struct {
	Items []PreferenceItem `json:"items"`
	// ExternalReference carries the order id; the webhook hands it back.
	ExternalReference string `json:"external_reference"`
	NotificationURL   string `json:"notification_url"`
	PayerEmail        string `json:"-"`
}

type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the gateway's view of one payment attempt.
type Payment struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

type PaymentClient interface {
	CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

type HTTPPaymentClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewHTTPPaymentClient(baseURL, accessToken string) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      http.DefaultClient,
	}
}

func (c *HTTPPaymentClient) CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(struct {
		Items             []PreferenceItem `json:"items"`
		ExternalReference string           `json:"external_reference"`
		NotificationURL   string           `json:"notification_url"`
		Payer             map[string]any   `json:"payer,omitempty"`
	}{
		Items:             req.Items,
		ExternalReference: req.ExternalReference,
		NotificationURL:   req.NotificationURL,
		Payer:             payerField(req.PayerEmail),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code while creating preference: %d", resp.StatusCode)
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("decode preference: %w", err)
	}

	return &pref, nil
}

func payerField(email string) map[string]any {
	if email == "" {
		return nil
	}
	return map[string]any{"email": email}
}

func (c *HTTPPaymentClient) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code while fetching payment: %d", resp.StatusCode)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode payment: %w", err)
	}

	return &payment, nil
}
