package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/pkg/logger"
)

// VerifyPaymentCommand carries the client-side checkout confirmation
type VerifyPaymentCommand struct {
	StudentID  uint
	OrderID    string
	PaymentRef string
	Signature  string
	PaperID    uint
}

// VerifyPaymentResult reports the settled purchase
type VerifyPaymentResult struct {
	Purchase         *domain.Purchase `json:"purchase"`
	AlreadyProcessed bool             `json:"already_processed"`
}

// VerifyPaymentHandler settles the client-confirmation path
type VerifyPaymentHandler struct {
	payments    domain.PaymentRepository
	purchases   domain.PurchaseRepository
	store       domain.SettlementStore
	gw          gateway.Gateway
	orderSecret string
}

// NewVerifyPaymentHandler creates a new verify payment handler
func NewVerifyPaymentHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, store domain.SettlementStore, gw gateway.Gateway, orderSecret string) *VerifyPaymentHandler {
	return &VerifyPaymentHandler{
		payments:    payments,
		purchases:   purchases,
		store:       store,
		gw:          gw,
		orderSecret: orderSecret,
	}
}

// Handle verifies the client signature, confirms capture with the gateway and
// settles the payment into a purchase. The webhook channel may run the same
// settlement concurrently; whichever caller commits first wins and the other
// observes the existing purchase instead of an error.
func (h *VerifyPaymentHandler) Handle(ctx context.Context, cmd VerifyPaymentCommand) (*VerifyPaymentResult, error) {
	// Signature first: nothing is fetched or written for a tampered request.
	if !gateway.VerifyOrderSignature(cmd.OrderID, cmd.PaymentRef, cmd.Signature, h.orderSecret) {
		logger.Warn(ctx).
			Str("order_id", cmd.OrderID).
			Uint("student_id", cmd.StudentID).
			Msg("Order signature mismatch on verify call")
		return nil, domain.ErrSignatureMismatch
	}

	payment, err := h.payments.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if payment.StudentID != cmd.StudentID {
		return nil, domain.ErrNotOwner
	}

	// Idempotency short-circuit: if the purchase already exists the webhook (or
	// an earlier retry of this call) settled it. No fresh gateway check here;
	// the existing purchase reflects a previously verified payment.
	existing, err := h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID)
	if err == nil {
		if payment.Status != domain.StatusSuccess {
			if err := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusSuccess); err != nil {
				return nil, fmt.Errorf("failed to mark payment success: %w", err)
			}
		}
		return &VerifyPaymentResult{Purchase: existing, AlreadyProcessed: true}, nil
	}
	if !errors.Is(err, domain.ErrPurchaseNotFound) {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}

	// A valid signature proves the values came from the gateway, not that the
	// funds were captured; an order can be voided after signing. Ask the
	// gateway directly.
	details, err := h.gw.FetchPayment(ctx, cmd.PaymentRef)
	if err != nil {
		// Leave the payment visibly failed so the student can retry from a
		// fresh order instead of being stuck behind a pending row.
		if updateErr := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusFailed); updateErr != nil {
			logger.Error(ctx).Err(updateErr).Uint("payment_id", payment.ID).Msg("Failed to mark payment failed")
		}
		return nil, fmt.Errorf("gateway verification failed: %w", err)
	}

	if details.Status != gateway.Captured {
		if updateErr := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusFailed); updateErr != nil {
			logger.Error(ctx).Err(updateErr).Uint("payment_id", payment.ID).Msg("Failed to mark payment failed")
		}
		return nil, domain.ErrPaymentNotCaptured
	}

	purchase, err := h.store.Settle(ctx, domain.SettleParams{
		PaymentID:  payment.ID,
		PaymentRef: cmd.PaymentRef,
		Signature:  cmd.Signature,
		PaperID:    cmd.PaperID,
		StudentID:  cmd.StudentID,
		Price:      payment.Amount,
	})
	if errors.Is(err, domain.ErrDuplicatePurchase) {
		// A concurrent webhook won the insert race between our check above and
		// the commit. Converge on its row.
		if err := h.payments.UpdateStatus(ctx, payment.ID, domain.StatusSuccess); err != nil {
			return nil, fmt.Errorf("failed to mark payment success: %w", err)
		}
		winner, err := h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to read winning purchase: %w", err)
		}
		return &VerifyPaymentResult{Purchase: winner, AlreadyProcessed: true}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("payment_id", payment.ID).
		Uint("paper_id", cmd.PaperID).
		Uint("student_id", cmd.StudentID).
		Msg("Payment settled via client verification")

	return &VerifyPaymentResult{Purchase: purchase}, nil
}
