package command

import (
	"context"
	"fmt"

	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/pkg/logger"
)

// DeleteUnusedCommand removes every unredeemed coupon of a paper so the
// owning teacher can regenerate the batch
type DeleteUnusedCommand struct {
	PaperID uint
}

// DeleteUnusedHandler handles bulk deletion of unused coupons
type DeleteUnusedHandler struct {
	coupons domain.CouponRepository
}

// NewDeleteUnusedHandler creates a new delete unused handler
func NewDeleteUnusedHandler(coupons domain.CouponRepository) *DeleteUnusedHandler {
	return &DeleteUnusedHandler{coupons: coupons}
}

// Handle deletes unused coupons for the paper and returns how many were
// removed. Used coupons are never touched; they document granted access.
func (h *DeleteUnusedHandler) Handle(ctx context.Context, cmd DeleteUnusedCommand) (int64, error) {
	if cmd.PaperID == 0 {
		return 0, fmt.Errorf("paper_id is required")
	}

	deleted, err := h.coupons.DeleteUnused(ctx, cmd.PaperID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unused coupons: %w", err)
	}

	logger.Info(ctx).
		Uint("paper_id", cmd.PaperID).
		Int64("deleted", deleted).
		Msg("Unused coupons deleted")

	return deleted, nil
}
