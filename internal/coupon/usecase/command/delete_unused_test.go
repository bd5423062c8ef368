//go:build !integration

package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/internal/coupon/usecase/command"
)

func TestDeleteUnusedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only unused coupons of the paper", func(t *testing.T) {
		coupons := newMemCouponRepo()
		used := time.Now()
		coupons.add(&domain.Coupon{Code: "MATH-AAAA1111", PaperID: 7, StudentID: 12, IsUsed: true, UsedAt: &used})
		coupons.add(&domain.Coupon{Code: "MATH-BBBB2222", PaperID: 7, StudentID: 13})
		coupons.add(&domain.Coupon{Code: "PHYS-CCCC3333", PaperID: 8, StudentID: 12})

		deleted, err := command.NewDeleteUnusedHandler(coupons).Handle(ctx, command.DeleteUnusedCommand{PaperID: 7})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if deleted != 1 {
			t.Fatalf("expected 1 coupon deleted, got %d", deleted)
		}

		// The used coupon survives as the record of granted access.
		if _, err := coupons.FindByCode(ctx, "MATH-AAAA1111"); err != nil {
			t.Error("expected the used coupon kept")
		}
		if _, err := coupons.FindByCode(ctx, "MATH-BBBB2222"); err == nil {
			t.Error("expected the unused coupon removed")
		}
		if _, err := coupons.FindByCode(ctx, "PHYS-CCCC3333"); err != nil {
			t.Error("expected the other paper's coupon untouched")
		}
	})
}
