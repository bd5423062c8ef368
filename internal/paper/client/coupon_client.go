package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acadly/paperpay/internal/paper/usecase/command"
	"github.com/acadly/paperpay/pkg/logger"
)

// CouponServiceClient asks the coupon service to issue a batch over HTTP
type CouponServiceClient struct {
	baseURL string
	client  *http.Client
}

// NewCouponServiceClient creates a coupon service client with traced transport
func NewCouponServiceClient(baseURL string) *CouponServiceClient {
	logger.Logger.Info().
		Str("address", baseURL).
		Msg("Configured Coupon Service client")

	return &CouponServiceClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type generateResponse struct {
	Success bool                 `json:"success"`
	Data    *command.CouponBatch `json:"data"`
	Error   string               `json:"error"`
}

// GenerateCoupons triggers batch generation for a freshly published paper.
// The teacher's token is forwarded because the coupon endpoint checks the role.
func (c *CouponServiceClient) GenerateCoupons(ctx context.Context, token string, paperID, orgID uint) (*command.CouponBatch, error) {
	payload, err := json.Marshal(map[string]uint{"org_id": orgID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/papers/%d/coupons", c.baseURL, paperID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coupon service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coupon service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coupon response: %w", err)
	}
	if parsed.Data == nil {
		return &command.CouponBatch{Error: parsed.Error}, nil
	}

	return parsed.Data, nil
}
