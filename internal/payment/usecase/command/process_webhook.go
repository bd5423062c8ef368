package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/pkg/logger"
)

// EventPaymentCaptured is the only webhook event that triggers settlement
const EventPaymentCaptured = "payment.captured"

// WebhookEnvelope mirrors the gateway's webhook body
type WebhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookPaymentEntity is the captured payment inside the webhook payload
type WebhookPaymentEntity struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Amount  int64             `json:"amount"`
	Notes   map[string]string `json:"notes"`
}

// ProcessWebhookCommand carries the raw webhook delivery
type ProcessWebhookCommand struct {
	RawBody   []byte
	Signature string
}

// WebhookResult describes what the delivery amounted to. Every outcome other
// than a signature mismatch is acknowledged to the gateway, including defects;
// anything else triggers its retry policy and a replay storm.
type WebhookResult struct {
	Settled          bool             `json:"settled"`
	AlreadyProcessed bool             `json:"already_processed"`
	Ignored          bool             `json:"ignored"`
	Defect           string           `json:"defect,omitempty"`
	Purchase         *domain.Purchase `json:"purchase,omitempty"`
}

// ProcessWebhookHandler settles the asynchronous webhook path
type ProcessWebhookHandler struct {
	payments      domain.PaymentRepository
	purchases     domain.PurchaseRepository
	store         domain.SettlementStore
	webhookSecret string
}

// NewProcessWebhookHandler creates a new webhook handler
func NewProcessWebhookHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, store domain.SettlementStore, webhookSecret string) *ProcessWebhookHandler {
	return &ProcessWebhookHandler{
		payments:      payments,
		purchases:     purchases,
		store:         store,
		webhookSecret: webhookSecret,
	}
}

// Handle authenticates and settles one webhook delivery. The HMAC over the raw
// body is the only authentication this entry point has; a mismatch is the only
// hard rejection. Deliveries can arrive out of order and more than once, so
// everything after the signature check is idempotent.
func (h *ProcessWebhookHandler) Handle(ctx context.Context, cmd ProcessWebhookCommand) (*WebhookResult, error) {
	if !gateway.VerifyWebhookSignature(cmd.RawBody, cmd.Signature, h.webhookSecret) {
		logger.Warn(ctx).Msg("Webhook signature mismatch")
		return nil, domain.ErrSignatureMismatch
	}

	var envelope WebhookEnvelope
	if err := json.Unmarshal(cmd.RawBody, &envelope); err != nil {
		// Authenticated but unparseable: ack and report, the gateway will not
		// produce a better body on retry.
		logger.Error(ctx).Err(err).Msg("Failed to decode webhook body")
		return &WebhookResult{Defect: "unparseable webhook body"}, nil
	}

	if envelope.Event != EventPaymentCaptured {
		logger.Debug(ctx).Str("event", envelope.Event).Msg("Ignoring webhook event")
		return &WebhookResult{Ignored: true}, nil
	}

	entity := envelope.Payload.Payment.Entity
	paperID, err := paperIDFromNotes(entity.Notes)
	if err != nil {
		// Without the paper id the intent cannot be reconstructed. Ack anyway;
		// the defect needs an operator, not a redelivery.
		logger.Error(ctx).
			Err(err).
			Str("order_id", entity.OrderID).
			Msg("Captured-payment webhook missing paper metadata")
		return &WebhookResult{Defect: "missing paper_id in notes"}, nil
	}

	payment, err := h.payments.FindByOrderID(ctx, entity.OrderID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		logger.Error(ctx).
			Str("order_id", entity.OrderID).
			Msg("Webhook references unknown order")
		return &WebhookResult{Defect: "unknown order"}, nil
	}
	if err != nil {
		return nil, err
	}

	// Idempotency floor: a success payment means this delivery is a replay.
	if payment.Status == domain.StatusSuccess {
		return &WebhookResult{AlreadyProcessed: true}, nil
	}

	// The client path may have settled first; converge on its purchase.
	if existing, err := h.purchases.FindByPaperAndStudent(ctx, paperID, payment.StudentID); err == nil {
		if err := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusSuccess); err != nil {
			return nil, fmt.Errorf("failed to mark payment success: %w", err)
		}
		return &WebhookResult{AlreadyProcessed: true, Purchase: existing}, nil
	} else if !errors.Is(err, domain.ErrPurchaseNotFound) {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}

	purchase, err := h.store.Settle(ctx, domain.SettleParams{
		PaymentID:  payment.ID,
		PaymentRef: entity.ID,
		PaperID:    paperID,
		StudentID:  payment.StudentID,
		Price:      payment.Amount,
	})
	if errors.Is(err, domain.ErrDuplicatePurchase) {
		if err := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusSuccess); err != nil {
			return nil, fmt.Errorf("failed to mark payment success: %w", err)
		}
		winner, err := h.purchases.FindByPaperAndStudent(ctx, paperID, payment.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to read winning purchase: %w", err)
		}
		return &WebhookResult{AlreadyProcessed: true, Purchase: winner}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("payment_id", payment.ID).
		Uint("paper_id", paperID).
		Uint("student_id", payment.StudentID).
		Msg("Payment settled via webhook")

	return &WebhookResult{Settled: true, Purchase: purchase}, nil
}

func paperIDFromNotes(notes map[string]string) (uint, error) {
	raw, ok := notes["paper_id"]
	if !ok || raw == "" {
		return 0, fmt.Errorf("paper_id not present in notes")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid paper_id %q: %w", raw, err)
	}
	return uint(id), nil
}
