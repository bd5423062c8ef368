package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// OrderSignature computes the hex HMAC-SHA256 over "orderID|paymentRef" with the
// order key secret. The checkout client library computes the same value on the
// browser side after a successful checkout.
func OrderSignature(orderID, paymentRef, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentRef))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyOrderSignature checks a client-supplied order signature in constant time
func VerifyOrderSignature(orderID, paymentRef, signature, secret string) bool {
	expected := OrderSignature(orderID, paymentRef, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSignature computes the hex HMAC-SHA256 over the exact raw webhook body
// with the webhook secret. The webhook secret is distinct from the order key
// secret; the two must never be interchanged.
func WebhookSignature(body []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyWebhookSignature checks the webhook signature header in constant time
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := WebhookSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
