package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxReceiptLength is the longest receipt string the checkout API accepts
const MaxReceiptLength = 40

// CheckoutClient implements Gateway against the checkout provider's REST API
type CheckoutClient struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewCheckoutClient creates a checkout API client. The key pair authenticates
// every call via HTTP basic auth.
func NewCheckoutClient(keyID, keySecret, baseURL string) *CheckoutClient {
	if baseURL == "" {
		baseURL = "https://api.checkout.example.com/v1"
	}
	return &CheckoutClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type orderPayload struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// CreateOrder opens an order with the checkout provider
func (c *CheckoutClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if len(req.Receipt) > MaxReceiptLength {
		return nil, fmt.Errorf("receipt exceeds %d characters: %q", MaxReceiptLength, req.Receipt)
	}

	payload := orderPayload{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	var order Order
	if err := c.do(httpReq, &order); err != nil {
		return nil, fmt.Errorf("create order failed: %w", err)
	}

	return &order, nil
}

// FetchPayment returns the authoritative status of a payment attempt
func (c *CheckoutClient) FetchPayment(ctx context.Context, paymentRef string) (*PaymentDetails, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentRef, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	var details PaymentDetails
	if err := c.do(httpReq, &details); err != nil {
		return nil, fmt.Errorf("fetch payment failed: %w", err)
	}

	return &details, nil
}

func (c *CheckoutClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	return nil
}
