package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acadly/paperpay/pkg/logger"
)

// Paper is the catalog service's view of an exam paper
type Paper struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"` // minor units; 0 means free
	IsPublic  bool   `json:"is_public"`
	Status    string `json:"status"` // draft, published
	TeacherID uint   `json:"teacher_id"`
	OrgID     uint   `json:"org_id"`
}

// Purchasable reports whether an order may be opened for this paper
func (p *Paper) Purchasable() bool {
	return p.IsPublic && p.Status == "published"
}

// PaperServiceClient calls the paper catalog service over HTTP
type PaperServiceClient struct {
	baseURL string
	client  *http.Client
}

// NewPaperServiceClient creates a paper service client with traced transport
func NewPaperServiceClient(baseURL string) *PaperServiceClient {
	logger.Logger.Info().
		Str("address", baseURL).
		Msg("Configured Paper Service client")

	return &PaperServiceClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type paperResponse struct {
	Success bool   `json:"success"`
	Data    *Paper `json:"data"`
	Error   string `json:"error"`
}

// GetPaper fetches a paper by ID. A 404 yields (nil, nil).
func (c *PaperServiceClient) GetPaper(ctx context.Context, paperID uint) (*Paper, error) {
	url := fmt.Sprintf("%s/api/papers/%d", c.baseURL, paperID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paper service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paper service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed paperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal paper response: %w", err)
	}

	return parsed.Data, nil
}
