package query

import (
	"fmt"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// GetPaperQuery represents the query to get a paper by ID
type GetPaperQuery struct {
	ID uint
}

// GetPaperHandler handles get paper query
type GetPaperHandler struct {
	repo domain.PaperRepository
}

// NewGetPaperHandler creates a new get paper handler
func NewGetPaperHandler(repo domain.PaperRepository) *GetPaperHandler {
	return &GetPaperHandler{repo: repo}
}

// Handle executes the get paper query
func (h *GetPaperHandler) Handle(query GetPaperQuery) (*domain.Paper, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("invalid paper id")
	}

	paper, err := h.repo.FindByID(query.ID)
	if err != nil {
		return nil, fmt.Errorf("paper not found: %w", err)
	}

	return paper, nil
}
