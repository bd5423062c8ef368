//go:build !integration

package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/internal/coupon/usecase/command"
	paymentdomain "github.com/acadly/paperpay/internal/payment/domain"
)

type redeemDeps struct {
	coupons   *memCouponRepo
	purchases *memPurchaseRepo
	store     *memSettlementStore
}

func newRedeemDeps() *redeemDeps {
	purchases := newMemPurchaseRepo()
	return &redeemDeps{
		coupons:   newMemCouponRepo(),
		purchases: purchases,
		store:     &memSettlementStore{purchases: purchases},
	}
}

func (d *redeemDeps) handler() *command.RedeemCouponHandler {
	return command.NewRedeemCouponHandler(d.coupons, d.purchases, d.store)
}

func TestRedeemCouponHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems a valid coupon and grants the purchase", func(t *testing.T) {
		deps := newRedeemDeps()
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !result.Valid {
			t.Fatalf("expected a valid redemption, got %+v", result)
		}
		if result.Purchase == nil || result.Purchase.PaperID != 7 || result.Purchase.StudentID != 12 {
			t.Fatalf("unexpected purchase: %+v", result.Purchase)
		}
		if result.Purchase.Price != 0 {
			t.Errorf("coupon purchases are free, got price %d", result.Purchase.Price)
		}

		stored, err := deps.coupons.FindByCode(ctx, "MATH-AB12CD34")
		if err != nil {
			t.Fatal(err)
		}
		if !stored.IsUsed || stored.UsedAt == nil {
			t.Errorf("expected the coupon consumed, got %+v", stored)
		}
	})

	t.Run("reports an unknown code as invalid, not as an error", func(t *testing.T) {
		deps := newRedeemDeps()

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "NOPE-00000000", PaperID: 7, StudentID: 12})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.Valid || result.Message != "Invalid coupon code" {
			t.Fatalf("expected the invalid-code message, got %+v", result)
		}
	})

	t.Run("rejects a coupon presented against the wrong paper", func(t *testing.T) {
		deps := newRedeemDeps()
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 8, StudentID: 12})
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid || result.Message != "This coupon is for a different paper" {
			t.Fatalf("expected the wrong-paper message, got %+v", result)
		}
	})

	t.Run("coupons are not transferable between students", func(t *testing.T) {
		deps := newRedeemDeps()
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 99})
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid || result.Message != "This coupon is not assigned to you" {
			t.Fatalf("expected the not-assigned message, got %+v", result)
		}
		if deps.store.grantCalls != 0 {
			t.Errorf("expected no grant for another student's coupon, got %d", deps.store.grantCalls)
		}
	})

	t.Run("redeeming the same code twice consumes it exactly once", func(t *testing.T) {
		deps := newRedeemDeps()
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		h := deps.handler()
		cmd := command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12}

		first, err := h.Handle(ctx, cmd)
		if err != nil || !first.Valid {
			t.Fatalf("first redemption should succeed, got %+v, %v", first, err)
		}

		second, err := h.Handle(ctx, cmd)
		if err != nil {
			t.Fatal(err)
		}
		if second.Valid || second.Message != "This coupon has already been used" {
			t.Fatalf("expected the already-used message, got %+v", second)
		}
		if deps.purchases.count() != 1 {
			t.Errorf("expected one purchase, got %d", deps.purchases.count())
		}
	})

	t.Run("a concurrent redemption losing the flip gets the already-used message", func(t *testing.T) {
		deps := newRedeemDeps()
		coupon := deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})

		// The other request flips the row between our read and our flip.
		deps.coupons.MarkUsedFunc = func(ctx context.Context, couponID uint, usedAt time.Time) error {
			if couponID == coupon.ID {
				return domain.ErrCouponUsed
			}
			return nil
		}

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid || result.Message != "This coupon has already been used" {
			t.Fatalf("expected the already-used message, got %+v", result)
		}
		if deps.store.grantCalls != 0 {
			t.Errorf("a lost flip must not grant, got %d grants", deps.store.grantCalls)
		}
	})

	t.Run("rejects an expired coupon", func(t *testing.T) {
		deps := newRedeemDeps()
		past := time.Now().Add(-time.Hour)
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12, ExpiresAt: &past})

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid || result.Message != "This coupon has expired" {
			t.Fatalf("expected the expired message, got %+v", result)
		}
	})

	t.Run("a student who already purchased keeps access and the code is consumed", func(t *testing.T) {
		deps := newRedeemDeps()
		deps.coupons.add(&domain.Coupon{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		if err := deps.purchases.insert(&paymentdomain.Purchase{PaperID: 7, StudentID: 12, Price: 49900}); err != nil {
			t.Fatal(err)
		}

		result, err := deps.handler().Handle(ctx, command.RedeemCouponCommand{Code: "MATH-AB12CD34", PaperID: 7, StudentID: 12})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !result.Valid || result.Message != "You already have access to this paper" {
			t.Fatalf("expected the already-have-access outcome, got %+v", result)
		}
		if result.Purchase == nil || result.Purchase.Price != 49900 {
			t.Fatalf("expected the existing purchase, got %+v", result.Purchase)
		}

		stored, err := deps.coupons.FindByCode(ctx, "MATH-AB12CD34")
		if err != nil {
			t.Fatal(err)
		}
		if !stored.IsUsed {
			t.Error("expected the coupon consumed even though access already existed")
		}
		if deps.purchases.count() != 1 {
			t.Errorf("expected exactly one purchase, got %d", deps.purchases.count())
		}
	})
}
