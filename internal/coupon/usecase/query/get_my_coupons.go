package query

import (
	"context"

	"github.com/acadly/paperpay/internal/coupon/domain"
)

// GetMyCouponsQuery lists the calling student's coupons
type GetMyCouponsQuery struct {
	StudentID uint
}

// GetMyCouponsHandler handles the student coupon listing
type GetMyCouponsHandler struct {
	coupons domain.CouponRepository
}

// NewGetMyCouponsHandler creates a new get my coupons handler
func NewGetMyCouponsHandler(coupons domain.CouponRepository) *GetMyCouponsHandler {
	return &GetMyCouponsHandler{coupons: coupons}
}

// Handle returns the student's coupons, newest first
func (h *GetMyCouponsHandler) Handle(ctx context.Context, q GetMyCouponsQuery) ([]*domain.Coupon, error) {
	return h.coupons.FindByStudent(ctx, q.StudentID)
}
