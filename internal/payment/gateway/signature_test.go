//go:build !integration

package gateway_test

import (
	"testing"

	"github.com/acadly/paperpay/internal/payment/gateway"
)

func TestOrderSignature(t *testing.T) {
	const secret = "key_secret_test"

	t.Run("round-trips through verification", func(t *testing.T) {
		sig := gateway.OrderSignature("order_1", "pay_1", secret)
		if !gateway.VerifyOrderSignature("order_1", "pay_1", sig, secret) {
			t.Error("expected a freshly computed signature to verify")
		}
	})

	t.Run("rejects a swapped payment reference", func(t *testing.T) {
		sig := gateway.OrderSignature("order_1", "pay_1", secret)
		if gateway.VerifyOrderSignature("order_1", "pay_other", sig, secret) {
			t.Error("signature must bind the payment reference")
		}
	})

	t.Run("rejects a swapped order id", func(t *testing.T) {
		sig := gateway.OrderSignature("order_1", "pay_1", secret)
		if gateway.VerifyOrderSignature("order_other", "pay_1", sig, secret) {
			t.Error("signature must bind the order id")
		}
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		if gateway.VerifyOrderSignature("order_1", "pay_1", "", secret) {
			t.Error("empty signature must not verify")
		}
	})
}

func TestWebhookSignature(t *testing.T) {
	const secret = "webhook_secret_test"
	body := []byte(`{"event":"payment.captured"}`)

	t.Run("round-trips through verification", func(t *testing.T) {
		sig := gateway.WebhookSignature(body, secret)
		if !gateway.VerifyWebhookSignature(body, sig, secret) {
			t.Error("expected a freshly computed signature to verify")
		}
	})

	t.Run("rejects a modified body", func(t *testing.T) {
		sig := gateway.WebhookSignature(body, secret)
		tampered := []byte(`{"event":"payment.captured" }`)
		if gateway.VerifyWebhookSignature(tampered, sig, secret) {
			t.Error("signature must cover the exact raw body")
		}
	})

	t.Run("order and webhook secrets are not interchangeable", func(t *testing.T) {
		// Signing the webhook body with the order key secret must fail,
		// and vice versa for the order signature.
		sig := gateway.WebhookSignature(body, "key_secret_test")
		if gateway.VerifyWebhookSignature(body, sig, secret) {
			t.Error("webhook signature computed with the order secret must not verify")
		}

		orderSig := gateway.OrderSignature("order_1", "pay_1", secret)
		if gateway.VerifyOrderSignature("order_1", "pay_1", orderSig, "key_secret_test") {
			t.Error("order signature computed with the webhook secret must not verify")
		}
	})
}
