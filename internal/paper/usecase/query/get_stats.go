package query

import (
	"fmt"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// GetStatsQuery represents the query to get paper statistics
type GetStatsQuery struct{}

// PaperStats represents paper statistics
type PaperStats struct {
	TotalPapers     int64   `json:"total_papers"`
	PublishedPapers int64   `json:"published_papers"`
	FreePapers      int64   `json:"free_papers"`
	AveragePrice    float64 `json:"average_price"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.PaperRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.PaperRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(query GetStatsQuery) (*PaperStats, error) {
	total, err := h.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to get paper count: %w", err)
	}

	papers, err := h.repo.FindAll(10000, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get papers: %w", err)
	}

	var published, free int64
	var totalPrice float64
	for _, paper := range papers {
		if paper.Status == domain.StatusPublished {
			published++
		}
		if paper.Price == 0 {
			free++
		}
		totalPrice += float64(paper.Price)
	}

	averagePrice := 0.0
	if total > 0 {
		averagePrice = totalPrice / float64(total)
	}

	return &PaperStats{
		TotalPapers:     total,
		PublishedPapers: published,
		FreePapers:      free,
		AveragePrice:    averagePrice,
	}, nil
}
