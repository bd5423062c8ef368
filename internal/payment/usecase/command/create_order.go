package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/acadly/paperpay/internal/payment/client"
	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
)

// PaperProvider supplies paper pricing and eligibility. Satisfied by
// client.PaperServiceClient; faked in tests.
type PaperProvider interface {
	GetPaper(ctx context.Context, paperID uint) (*client.Paper, error)
}

// CreateOrderCommand represents the command to open a checkout order
type CreateOrderCommand struct {
	StudentID uint
	PaperID   uint
}

// CreateOrderResult is returned to the client to drive the checkout widget
type CreateOrderResult struct {
	OrderID        string `json:"order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	LocalPaymentID uint   `json:"payment_id"`
}

// CreateOrderHandler handles the create order command
type CreateOrderHandler struct {
	payments  domain.PaymentRepository
	purchases domain.PurchaseRepository
	papers    PaperProvider
	gw        gateway.Gateway
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(payments domain.PaymentRepository, purchases domain.PurchaseRepository, papers PaperProvider, gw gateway.Gateway) *CreateOrderHandler {
	return &CreateOrderHandler{
		payments:  payments,
		purchases: purchases,
		papers:    papers,
		gw:        gw,
	}
}

// Handle opens a gateway order for a paper and records the matching pending
// payment. The already-purchased check here is advisory: the storage-level
// unique constraint on (paper_id, student_id) is what finally holds under
// races, this check only gives the student an early answer.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	if cmd.StudentID == 0 {
		return nil, fmt.Errorf("student_id is required")
	}
	if cmd.PaperID == 0 {
		return nil, fmt.Errorf("paper_id is required")
	}

	paper, err := h.papers.GetPaper(ctx, cmd.PaperID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up paper: %w", err)
	}
	if paper == nil || !paper.Purchasable() {
		return nil, domain.ErrPaperNotAvailable
	}
	if paper.Price == 0 {
		return nil, fmt.Errorf("paper is free, use the claim-free flow: %w", domain.ErrPaperNotAvailable)
	}

	if _, err := h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID); err == nil {
		return nil, domain.ErrAlreadyPurchased
	} else if !errors.Is(err, domain.ErrPurchaseNotFound) {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}

	// The receipt has a 40 character ceiling at the gateway, so it only carries
	// a short reference. The identifiers the webhook needs to reconstruct the
	// purchase travel in the notes map, which the gateway echoes back verbatim.
	receipt := fmt.Sprintf("paper_%d_%s", cmd.PaperID, uuid.New().String()[:8])

	order, err := h.gw.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   paper.Price,
		Currency: "INR",
		Receipt:  receipt,
		Notes: map[string]string{
			"paper_id":   strconv.FormatUint(uint64(cmd.PaperID), 10),
			"student_id": strconv.FormatUint(uint64(cmd.StudentID), 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	payment := &domain.Payment{
		StudentID: cmd.StudentID,
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Status:    domain.StatusPending,
	}

	if err := h.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record pending payment: %w", err)
	}

	return &CreateOrderResult{
		OrderID:        order.ID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		LocalPaymentID: payment.ID,
	}, nil
}
