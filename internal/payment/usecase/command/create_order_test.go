//go:build !integration

package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/acadly/paperpay/internal/payment/client"
	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
)

type createOrderDeps struct {
	payments  *memPaymentRepo
	purchases *memPurchaseRepo
	papers    *mockPaperProvider
	gw        *mockGateway
}

func newCreateOrderDeps(papers ...*client.Paper) *createOrderDeps {
	return &createOrderDeps{
		payments:  newMemPaymentRepo(),
		purchases: newMemPurchaseRepo(),
		papers:    newMockPaperProvider(papers...),
		gw:        &mockGateway{},
	}
}

func (d *createOrderDeps) handler() *command.CreateOrderHandler {
	return command.NewCreateOrderHandler(d.payments, d.purchases, d.papers, d.gw)
}

func TestCreateOrderHandler_Handle(t *testing.T) {
	ctx := context.Background()

	published := &client.Paper{ID: 7, Title: "Algebra Midterm", Price: 49900, IsPublic: true, Status: "published"}

	t.Run("opens a gateway order and records a pending payment", func(t *testing.T) {
		deps := newCreateOrderDeps(published)

		var sentReq gateway.OrderRequest
		deps.gw.CreateOrderFunc = func(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
			sentReq = req
			return &gateway.Order{ID: "order_abc123", Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
		}

		result, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 7})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.OrderID != "order_abc123" {
			t.Errorf("expected order id 'order_abc123', got %q", result.OrderID)
		}
		if result.Amount != 49900 {
			t.Errorf("expected amount 49900, got %d", result.Amount)
		}

		if sentReq.Notes["paper_id"] != "7" || sentReq.Notes["student_id"] != "12" {
			t.Errorf("expected notes to carry paper and student ids, got %v", sentReq.Notes)
		}
		if len(sentReq.Receipt) > 40 {
			t.Errorf("receipt exceeds the gateway's 40 character ceiling: %q", sentReq.Receipt)
		}

		payment, err := deps.payments.FindByOrderID(ctx, "order_abc123")
		if err != nil {
			t.Fatalf("expected a pending payment recorded, got: %v", err)
		}
		if payment.Status != domain.StatusPending {
			t.Errorf("expected payment status 'pending', got %q", payment.Status)
		}
		if payment.StudentID != 12 || payment.Amount != 49900 {
			t.Errorf("unexpected payment row: %+v", payment)
		}
	})

	t.Run("rejects when the student already owns the paper", func(t *testing.T) {
		deps := newCreateOrderDeps(published)
		if err := deps.purchases.insert(&domain.Purchase{PaperID: 7, StudentID: 12}); err != nil {
			t.Fatal(err)
		}

		_, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 7})
		if !errors.Is(err, domain.ErrAlreadyPurchased) {
			t.Fatalf("expected ErrAlreadyPurchased, got %v", err)
		}
		if deps.gw.createCalls != 0 {
			t.Errorf("expected no gateway call for an owned paper, got %d", deps.gw.createCalls)
		}
	})

	t.Run("rejects a draft paper", func(t *testing.T) {
		draft := &client.Paper{ID: 8, Price: 10000, IsPublic: false, Status: "draft"}
		deps := newCreateOrderDeps(draft)

		_, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 8})
		if !errors.Is(err, domain.ErrPaperNotAvailable) {
			t.Fatalf("expected ErrPaperNotAvailable, got %v", err)
		}
	})

	t.Run("rejects an unknown paper", func(t *testing.T) {
		deps := newCreateOrderDeps()

		_, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 999})
		if !errors.Is(err, domain.ErrPaperNotAvailable) {
			t.Fatalf("expected ErrPaperNotAvailable, got %v", err)
		}
	})

	t.Run("directs free papers to the claim-free flow", func(t *testing.T) {
		free := &client.Paper{ID: 9, Price: 0, IsPublic: true, Status: "published"}
		deps := newCreateOrderDeps(free)

		_, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 9})
		if !errors.Is(err, domain.ErrPaperNotAvailable) {
			t.Fatalf("expected ErrPaperNotAvailable for free paper, got %v", err)
		}
		if deps.gw.createCalls != 0 {
			t.Errorf("expected no gateway order for a free paper, got %d calls", deps.gw.createCalls)
		}
	})

	t.Run("records nothing when the gateway call fails", func(t *testing.T) {
		deps := newCreateOrderDeps(published)
		deps.gw.CreateOrderFunc = func(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
			return nil, fmt.Errorf("gateway timeout")
		}

		_, err := deps.handler().Handle(ctx, command.CreateOrderCommand{StudentID: 12, PaperID: 7})
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}
		if deps.payments.count() != 0 {
			t.Errorf("expected no payment rows after gateway failure, got %d", deps.payments.count())
		}
	})
}
