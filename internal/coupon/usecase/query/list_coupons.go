package query

import (
	"context"

	"github.com/acadly/paperpay/internal/coupon/domain"
)

// ListCouponsQuery lists the coupons issued for a paper
type ListCouponsQuery struct {
	PaperID uint
	Limit   int
	Offset  int
}

// ListCouponsHandler handles coupon listing
type ListCouponsHandler struct {
	coupons domain.CouponRepository
}

// NewListCouponsHandler creates a new list coupons handler
func NewListCouponsHandler(coupons domain.CouponRepository) *ListCouponsHandler {
	return &ListCouponsHandler{coupons: coupons}
}

// Handle returns the coupons for a paper
func (h *ListCouponsHandler) Handle(ctx context.Context, q ListCouponsQuery) ([]*domain.Coupon, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return h.coupons.FindByPaper(ctx, q.PaperID, q.Limit, q.Offset)
}
