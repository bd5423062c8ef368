package query

import (
	"context"
	"fmt"

	"github.com/acadly/paperpay/internal/payment/domain"
)

// GetMyPaymentsQuery represents the query to get a student's own payments
type GetMyPaymentsQuery struct {
	StudentID uint
	Limit     int
	Offset    int
}

// GetMyPaymentsHandler handles get my payments query
type GetMyPaymentsHandler struct {
	repo domain.PaymentRepository
}

// NewGetMyPaymentsHandler creates a new get my payments handler
func NewGetMyPaymentsHandler(repo domain.PaymentRepository) *GetMyPaymentsHandler {
	return &GetMyPaymentsHandler{repo: repo}
}

// Handle executes the get my payments query
func (h *GetMyPaymentsHandler) Handle(ctx context.Context, query GetMyPaymentsQuery) ([]domain.Payment, error) {
	if query.StudentID == 0 {
		return nil, fmt.Errorf("student_id is required")
	}

	if query.Limit == 0 {
		query.Limit = 10
	}

	if query.Limit > 100 {
		query.Limit = 100
	}

	payments, err := h.repo.FindByStudentID(ctx, query.StudentID, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get student payments: %w", err)
	}

	return payments, nil
}
