//go:build !integration

package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/internal/payment/usecase/command"
)

const webhookSecret = "webhook_secret_test"

type webhookDeps struct {
	payments  *memPaymentRepo
	purchases *memPurchaseRepo
	store     *memSettlementStore
}

func newWebhookDeps() *webhookDeps {
	payments := newMemPaymentRepo()
	purchases := newMemPurchaseRepo()
	return &webhookDeps{
		payments:  payments,
		purchases: purchases,
		store:     newMemSettlementStore(payments, purchases),
	}
}

func (d *webhookDeps) handler() *command.ProcessWebhookHandler {
	return command.NewProcessWebhookHandler(d.payments, d.purchases, d.store, webhookSecret)
}

// capturedBody builds a payment.captured webhook body for an order.
func capturedBody(orderID, paymentRef string, amount int64, paperID string) []byte {
	notes := ""
	if paperID != "" {
		notes = fmt.Sprintf(`,"notes":{"paper_id":%q,"student_id":"12"}`, paperID)
	}
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":%d%s}}}}`,
		paymentRef, orderID, amount, notes,
	))
}

// signedDelivery wraps a raw body with its valid signature.
func signedDelivery(body []byte) command.ProcessWebhookCommand {
	return command.ProcessWebhookCommand{
		RawBody:   body,
		Signature: gateway.WebhookSignature(body, webhookSecret),
	}
}

func TestProcessWebhookHandler_Handle(t *testing.T) {
	ctx := context.Background()

	seedPending := func(t *testing.T, d *webhookDeps) *domain.Payment {
		t.Helper()
		payment := &domain.Payment{StudentID: 12, OrderID: "order_1", Amount: 49900, Currency: "INR", Status: domain.StatusPending}
		if err := d.payments.Create(ctx, payment); err != nil {
			t.Fatal(err)
		}
		return payment
	}

	t.Run("settles a captured delivery", func(t *testing.T) {
		deps := newWebhookDeps()
		payment := seedPending(t, deps)

		result, err := deps.handler().Handle(ctx, signedDelivery(capturedBody("order_1", "pay_1", 49900, "7")))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !result.Settled {
			t.Fatalf("expected a settled result, got %+v", result)
		}
		if result.Purchase == nil || result.Purchase.PaperID != 7 || result.Purchase.StudentID != 12 {
			t.Fatalf("unexpected purchase: %+v", result.Purchase)
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusSuccess {
			t.Errorf("expected payment success, got %q", got)
		}
	})

	t.Run("rejects a delivery with a wrong signature", func(t *testing.T) {
		deps := newWebhookDeps()
		seedPending(t, deps)

		body := capturedBody("order_1", "pay_1", 49900, "7")
		cmd := command.ProcessWebhookCommand{
			RawBody:   body,
			Signature: gateway.WebhookSignature(body, "not_the_webhook_secret"),
		}

		_, err := deps.handler().Handle(ctx, cmd)
		if !errors.Is(err, domain.ErrSignatureMismatch) {
			t.Fatalf("expected ErrSignatureMismatch, got %v", err)
		}
		if deps.store.settleCalls != 0 {
			t.Errorf("expected no settlement attempt, got %d", deps.store.settleCalls)
		}
	})

	t.Run("a redelivery of a settled payment is acknowledged as a replay", func(t *testing.T) {
		deps := newWebhookDeps()
		seedPending(t, deps)
		delivery := signedDelivery(capturedBody("order_1", "pay_1", 49900, "7"))

		first, err := deps.handler().Handle(ctx, delivery)
		if err != nil || !first.Settled {
			t.Fatalf("first delivery should settle, got %+v, %v", first, err)
		}

		second, err := deps.handler().Handle(ctx, delivery)
		if err != nil {
			t.Fatalf("replay should not error: %v", err)
		}
		if !second.AlreadyProcessed || second.Settled {
			t.Fatalf("expected a replay acknowledgement, got %+v", second)
		}
		if deps.purchases.count() != 1 {
			t.Errorf("expected exactly one purchase after replay, got %d", deps.purchases.count())
		}
	})

	t.Run("ignores events other than payment.captured", func(t *testing.T) {
		deps := newWebhookDeps()
		body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)

		result, err := deps.handler().Handle(ctx, signedDelivery(body))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !result.Ignored {
			t.Fatalf("expected an ignored result, got %+v", result)
		}
	})

	t.Run("acks an authenticated but unparseable body as a defect", func(t *testing.T) {
		deps := newWebhookDeps()
		body := []byte(`{"event": not json`)

		result, err := deps.handler().Handle(ctx, signedDelivery(body))
		if err != nil {
			t.Fatalf("expected no error for a defective body, got: %v", err)
		}
		if result.Defect == "" {
			t.Fatalf("expected a defect report, got %+v", result)
		}
	})

	t.Run("acks a captured delivery with no paper metadata as a defect", func(t *testing.T) {
		deps := newWebhookDeps()
		seedPending(t, deps)

		result, err := deps.handler().Handle(ctx, signedDelivery(capturedBody("order_1", "pay_1", 49900, "")))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.Defect == "" {
			t.Fatalf("expected a defect report, got %+v", result)
		}
		if deps.store.settleCalls != 0 {
			t.Errorf("expected no settlement without paper metadata, got %d", deps.store.settleCalls)
		}
	})

	t.Run("acks a delivery for an unknown order as a defect", func(t *testing.T) {
		deps := newWebhookDeps()

		result, err := deps.handler().Handle(ctx, signedDelivery(capturedBody("order_ghost", "pay_1", 49900, "7")))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.Defect == "" {
			t.Fatalf("expected a defect report, got %+v", result)
		}
	})

	t.Run("converges with a concurrent client verification", func(t *testing.T) {
		deps := newWebhookDeps()
		payment := seedPending(t, deps)

		// Client verify settles first through the shared store.
		verify := command.NewVerifyPaymentHandler(deps.payments, deps.purchases, deps.store, &mockGateway{}, orderSecret)
		verified, err := verify.Handle(ctx, signedCommand(12, "order_1", "pay_1", 7))
		if err != nil {
			t.Fatalf("verify should settle: %v", err)
		}

		// The webhook for the same capture arrives afterwards.
		result, err := deps.handler().Handle(ctx, signedDelivery(capturedBody("order_1", "pay_1", 49900, "7")))
		if err != nil {
			t.Fatalf("webhook should converge: %v", err)
		}
		if !result.AlreadyProcessed {
			t.Fatalf("expected the webhook to observe the existing purchase, got %+v", result)
		}
		if deps.purchases.count() != 1 {
			t.Errorf("expected exactly one purchase across both channels, got %d", deps.purchases.count())
		}
		if got := deps.payments.statusOf(payment.ID); got != domain.StatusSuccess {
			t.Errorf("expected payment success, got %q", got)
		}
		if result.Purchase != nil && verified.Purchase != nil && result.Purchase.ID != verified.Purchase.ID {
			t.Errorf("both channels should report the same purchase, got %d and %d", verified.Purchase.ID, result.Purchase.ID)
		}
	})
}
