package command

import (
	"context"
	"fmt"
	"time"

	"github.com/acadly/paperpay/internal/paper/domain"
	"github.com/acadly/paperpay/pkg/logger"
)

// CouponIssuer triggers coupon batch generation in the coupon service
type CouponIssuer interface {
	GenerateCoupons(ctx context.Context, token string, paperID, orgID uint) (*CouponBatch, error)
}

// CouponBatch is the coupon service's report of a generation run
type CouponBatch struct {
	TotalCoupons int    `json:"total_coupons"`
	Error        string `json:"error,omitempty"`
}

// PublishPaperCommand represents the command to publish a paper
type PublishPaperCommand struct {
	ID        uint
	TeacherID uint
	Token     string // forwarded to the coupon service
}

// PublishPaperResult reports the publish outcome. CouponError is informational:
// publishing has already succeeded when it is set.
type PublishPaperResult struct {
	Paper        *domain.Paper `json:"paper"`
	TotalCoupons int           `json:"total_coupons"`
	CouponError  string        `json:"coupon_error,omitempty"`
}

// PublishPaperHandler handles paper publishing
type PublishPaperHandler struct {
	repo    domain.PaperRepository
	coupons CouponIssuer
}

// NewPublishPaperHandler creates a new publish paper handler
func NewPublishPaperHandler(repo domain.PaperRepository, coupons CouponIssuer) *PublishPaperHandler {
	return &PublishPaperHandler{repo: repo, coupons: coupons}
}

// Handle publishes the paper and then asks the coupon service for a batch.
// The coupon call happens after the status flip is durable and its failure is
// only reported, never propagated: a paper must always be publishable even
// when the coupon service is down.
func (h *PublishPaperHandler) Handle(ctx context.Context, cmd PublishPaperCommand) (*PublishPaperResult, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid paper id")
	}

	paper, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("paper not found")
	}
	if paper.TeacherID != cmd.TeacherID {
		return nil, fmt.Errorf("paper belongs to another teacher")
	}
	if paper.Status == domain.StatusPublished {
		return &PublishPaperResult{Paper: paper}, nil
	}

	paper.Status = domain.StatusPublished
	paper.IsPublic = true
	paper.UpdatedAt = time.Now()

	if err := h.repo.Update(paper); err != nil {
		return nil, fmt.Errorf("failed to publish paper: %w", err)
	}

	result := &PublishPaperResult{Paper: paper}

	batch, err := h.coupons.GenerateCoupons(ctx, cmd.Token, paper.ID, paper.OrgID)
	if err != nil {
		logger.Error(ctx).
			Err(err).
			Uint("paper_id", paper.ID).
			Msg("Coupon generation failed after publish")
		result.CouponError = "Coupon generation failed; the paper is published"
		return result, nil
	}

	result.TotalCoupons = batch.TotalCoupons
	result.CouponError = batch.Error
	return result, nil
}
