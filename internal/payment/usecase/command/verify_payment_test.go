//go:build !integration

package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
)

const orderSecret = "key_secret_test"

type verifyDeps struct {
	payments  *memPaymentRepo
	purchases *memPurchaseRepo
	store     *memSettlementStore
	gw        *mockGateway
}

func newVerifyDeps() *verifyDeps {
	payments := newMemPaymentRepo()
	purchases := newMemPurchaseRepo()
	return &verifyDeps{
		payments:  payments,
		purchases: purchases,
		store:     newMemSettlementStore(payments, purchases),
		gw:        &mockGateway{},
	}
}

func (d *verifyDeps) handler() *command.VerifyPaymentHandler {
	return command.NewVerifyPaymentHandler(d.payments, d.purchases, d.store, d.gw, orderSecret)
}

// seedPending inserts a pending payment and returns it.
func (d *verifyDeps) seedPending(t *testing.T, studentID uint, orderID string, amount int64) *domain.Payment {
	t.Helper()
	payment := &domain.Payment{StudentID: studentID, OrderID: orderID, Amount: amount, Currency: "INR", Status: domain.StatusPending}
	if err := d.payments.Create(context.Background(), payment); err != nil {
		t.Fatal(err)
	}
	return payment
}

func signedCommand(studentID uint, orderID, paymentRef string, paperID uint) command.VerifyPaymentCommand {
	return command.VerifyPaymentCommand{
		StudentID:  studentID,
		OrderID:    orderID,
		PaymentRef: paymentRef,
		Signature:  gateway.OrderSignature(orderID, paymentRef, orderSecret),
		PaperID:    paperID,
	}
}

func TestVerifyPaymentHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a captured payment into a purchase", func(t *testing.T) {
		deps := newVerifyDeps()
		payment := deps.seedPending(t, 12, "order_1", 49900)

		result, err := deps.handler().Handle(ctx, signedCommand(12, "order_1", "pay_1", 7))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.AlreadyProcessed {
			t.Error("expected a fresh settlement, not already-processed")
		}
		if result.Purchase == nil || result.Purchase.PaperID != 7 || result.Purchase.StudentID != 12 {
			t.Fatalf("unexpected purchase: %+v", result.Purchase)
		}
		if result.Purchase.Price != 49900 {
			t.Errorf("expected purchase price 49900, got %d", result.Purchase.Price)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusSuccess {
			t.Errorf("expected payment status 'success', got %q", got)
		}
	})

	t.Run("rejects a tampered signature before touching the gateway or storage", func(t *testing.T) {
		deps := newVerifyDeps()
		payment := deps.seedPending(t, 12, "order_1", 49900)

		cmd := signedCommand(12, "order_1", "pay_1", 7)
		cmd.Signature = "deadbeef"

		_, err := deps.handler().Handle(ctx, cmd)
		if !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Fatalf("expected ErrSignatureMismatch, got %v", err)
		}
		if deps.gw.fetchCalls != 0 {
			t.Errorf("expected no gateway fetch for a bad signature, got %d", deps.gw.fetchCalls)
		}
		if deps.store.settleCalls != 0 {
			t.Errorf("expected no settlement attempt, got %d", deps.store.settleCalls)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusPending {
			t.Errorf("expected payment left pending, got %q", got)
		}
	})

	t.Run("a signature from the wrong secret is a mismatch", func(t *testing.T) {
		deps := newVerifyDeps()
		deps.seedPending(t, 12, "order_1", 49900)

		cmd := command.VerifyPaymentCommand{
			StudentID:  12,
			OrderID:    "order_1",
			PaymentRef: "pay_1",
			Signature:  gateway.OrderSignature("order_1", "pay_1", "some_other_secret"),
			PaperID:    7,
		}
		if _, err := deps.handler().Handle(ctx, cmd); !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Fatalf("expected ErrSignatureMismatch, got %v", err)
		}
	})

	t.Run("rejects a verify call from a different student", func(t *testing.T) {
		deps := newVerifyDeps()
		deps.seedPending(t, 12, "order_1", 49900)

		_, err := deps.handler().Handle(ctx, signedCommand(99, "order_1", "pay_1", 7))
		if !errors.Is(err, domain.ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("returns the existing purchase without a fresh gateway check", func(t *testing.T) {
		deps := newVerifyDeps()
		payment := deps.seedPending(t, 12, "order_1", 49900)
		existing := &domain.Purchase{PaperID: 7, StudentID: 12, PaymentID: payment.ID, Price: 49900}
		if err := deps.purchases.insert(existing); err != nil {
			t.Fatal(err)
		}

		result, err := deps.handler().Handle(ctx, signedCommand(12, "order_1", "pay_1", 7))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !result.AlreadyProcessed {
			t.Error("expected already-processed result")
		}
		if result.Purchase.ID != existing.ID {
			t.Errorf("expected the existing purchase %d, got %d", existing.ID, result.Purchase.ID)
		}
		if deps.gw.fetchCalls != 0 {
			t.Errorf("expected no gateway fetch when the purchase already exists, got %d", deps.gw.fetchCalls)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusSuccess {
			t.Errorf("expected payment flipped to success, got %q", got)
		}
	})

	t.Run("marks the payment failed when the gateway reports not captured", func(t *testing.T) {
		deps := newVerifyDeps()
		payment := deps.seedPending(t, 12, "order_1", 49900)
		deps.gw.FetchPaymentFunc = func(ctx context.Context, paymentRef string) (*gateway.PaymentDetails, error) {
			return &gateway.PaymentDetails{ID: paymentRef, Status: "authorized"}, nil
		}

		_, err := deps.handler().Handle(ctx, signedCommand(12, "order_1", "pay_1", 7))
		if !errors.Is(err, domain.ErrPaymentNotCaptured) {
			t.Fatalf("expected ErrPaymentNotCaptured, got %v", err)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusFailed {
			t.Errorf("expected payment marked failed, got %q", got)
		}
		if deps.purchases.count() != 0 {
			t.Errorf("expected no purchase rows, got %d", deps.purchases.count())
		}
	})

	t.Run("converges on the webhook's purchase when it wins the insert race", func(t *testing.T) {
		deps := newVerifyDeps()
		payment := deps.seedPending(t, 12, "order_1", 49900)

		// The webhook commits between our existence check and our settle.
		deps.store.SettleFunc = func(ctx context.Context, params domain.SettleParams) (*domain.Purchase, error) {
			winner := &domain.Purchase{PaperID: params.PaperID, StudentID: params.StudentID, PaymentID: params.PaymentID, Price: params.Price}
			if err := deps.purchases.insert(winner); err != nil {
				return nil, err
			}
			return nil, domain.ErrDuplicatePurchase
		}

		result, err := deps.handler().Handle(ctx, signedCommand(12, "order_1", "pay_1", 7))
		if err != nil {
			t.Fatalf("expected convergence, but got: %v", err)
		}
		if !result.AlreadyProcessed {
			t.Error("expected already-processed result after losing the race")
		}
		if result.Purchase == nil || result.Purchase.PaperID != 7 {
			t.Fatalf("expected the winning purchase, got %+v", result.Purchase)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusSuccess {
			t.Errorf("expected payment success after convergence, got %q", got)
		}
		if deps.purchases.count() != 1 {
			t.Errorf("expected exactly one purchase row, got %d", deps.purchases.count())
		}
	})
}
