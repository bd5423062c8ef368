package query

import (
	"context"
	"fmt"

	"github.com/acadly/paperpay/internal/payment/domain"
)

// GetMyPurchasesQuery represents the query to list a student's entitlements
type GetMyPurchasesQuery struct {
	StudentID uint
	Limit     int
	Offset    int
}

// GetMyPurchasesHandler handles get my purchases query
type GetMyPurchasesHandler struct {
	repo domain.PurchaseRepository
}

// NewGetMyPurchasesHandler creates a new get my purchases handler
func NewGetMyPurchasesHandler(repo domain.PurchaseRepository) *GetMyPurchasesHandler {
	return &GetMyPurchasesHandler{repo: repo}
}

// Handle executes the get my purchases query
func (h *GetMyPurchasesHandler) Handle(ctx context.Context, query GetMyPurchasesQuery) ([]domain.Purchase, error) {
	if query.StudentID == 0 {
		return nil, fmt.Errorf("student_id is required")
	}

	if query.Limit == 0 {
		query.Limit = 20
	}

	if query.Limit > 100 {
		query.Limit = 100
	}

	purchases, err := h.repo.FindByStudentID(ctx, query.StudentID, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}

	return purchases, nil
}
