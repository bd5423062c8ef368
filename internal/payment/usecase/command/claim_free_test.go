//go:build !integration

package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/acadly/paperpay/internal/payment/client"
	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
)

func TestClaimFreeHandler_Handle(t *testing.T) {
	ctx := context.Background()

	freePaper := &client.Paper{ID: 9, Title: "Practice Set", Price: 0, IsPublic: true, Status: "published"}

	newDeps := func(papers ...*client.Paper) (*memPaymentRepo, *memPurchaseRepo, *memSettlementStore, *command.ClaimFreeHandler) {
		payments := newMemPaymentRepo()
		purchases := newMemPurchaseRepo()
		store := newMemSettlementStore(payments, purchases)
		h := command.NewClaimFreeHandler(purchases, store, newMockPaperProvider(papers...))
		return payments, purchases, store, h
	}

	t.Run("grants a free paper with a zero-amount success payment", func(t *testing.T) {
		payments, purchases, _, h := newDeps(freePaper)

		purchase, err := h.Handle(ctx, command.ClaimFreeCommand{StudentID: 12, PaperID: 9})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if purchase.PaperID != 9 || purchase.StudentID != 12 || purchase.Price != 0 {
			t.Fatalf("unexpected purchase: %+v", purchase)
		}

		if payments.count() != 1 {
			t.Fatalf("expected one payment row, got %d", payments.count())
		}
		stored, err := payments.FindByID(ctx, purchase.PaymentID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status != domain.StatusSuccess || stored.Amount != 0 {
			t.Errorf("expected a zero-amount success payment, got %+v", stored)
		}
		if !strings.HasPrefix(stored.OrderID, "free_") {
			t.Errorf("expected a free_ order id, got %q", stored.OrderID)
		}
		if purchases.count() != 1 {
			t.Errorf("expected one purchase row, got %d", purchases.count())
		}
	})

	t.Run("rejects a priced paper", func(t *testing.T) {
		priced := &client.Paper{ID: 7, Price: 49900, IsPublic: true, Status: "published"}
		_, _, store, h := newDeps(priced)

		_, err := h.Handle(ctx, command.ClaimFreeCommand{StudentID: 12, PaperID: 7})
		if !errors.Is(err, domain.ErrPaperNotAvailable) {
			t.Fatalf("expected ErrPaperNotAvailable, got %v", err)
		}
		if store.grantCalls != 0 {
			t.Errorf("expected no grant for a priced paper, got %d", store.grantCalls)
		}
	})

	t.Run("claiming twice returns the same purchase without a second grant", func(t *testing.T) {
		_, purchases, store, h := newDeps(freePaper)

		first, err := h.Handle(ctx, command.ClaimFreeCommand{StudentID: 12, PaperID: 9})
		if err != nil {
			t.Fatal(err)
		}
		second, err := h.Handle(ctx, command.ClaimFreeCommand{StudentID: 12, PaperID: 9})
		if err != nil {
			t.Fatal(err)
		}
		if first.ID != second.ID {
			t.Errorf("expected the same purchase, got %d and %d", first.ID, second.ID)
		}
		if store.grantCalls != 1 {
			t.Errorf("expected one grant, got %d", store.grantCalls)
		}
		if purchases.count() != 1 {
			t.Errorf("expected one purchase row, got %d", purchases.count())
		}
	})

	t.Run("a losing concurrent claim leaves no orphan payment", func(t *testing.T) {
		payments, purchases, store, h := newDeps(freePaper)

		// Another claim commits between the existence check and the grant.
		store.GrantFunc = func(ctx context.Context, payment *domain.Payment, purchase *domain.Purchase) error {
			winner := &domain.Purchase{PaperID: purchase.PaperID, StudentID: purchase.StudentID, Price: 0}
			if err := purchases.insert(winner); err != nil {
				return err
			}
			return domain.ErrDuplicatePurchase
		}

		purchase, err := h.Handle(ctx, command.ClaimFreeCommand{StudentID: 12, PaperID: 9})
		if err != nil {
			t.Fatalf("expected the winner's purchase, got: %v", err)
		}
		if purchase == nil || purchase.PaperID != 9 {
			t.Fatalf("unexpected purchase: %+v", purchase)
		}
		if payments.count() != 0 {
			t.Errorf("expected the losing payment rolled back, got %d rows", payments.count())
		}
	})
}
