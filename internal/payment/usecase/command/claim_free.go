package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/pkg/logger"
)

// ClaimFreeCommand grants direct access to a zero-price paper
type ClaimFreeCommand struct {
	StudentID uint
	PaperID   uint
}

// ClaimFreeHandler handles the free-claim command
type ClaimFreeHandler struct {
	purchases domain.PurchaseRepository
	store     domain.SettlementStore
	papers    PaperProvider
}

// NewClaimFreeHandler creates a new claim free handler
func NewClaimFreeHandler(purchases domain.PurchaseRepository, store domain.SettlementStore, papers PaperProvider) *ClaimFreeHandler {
	return &ClaimFreeHandler{
		purchases: purchases,
		store:     store,
		papers:    papers,
	}
}

// Handle grants a zero-price paper without touching the gateway. The payment
// row is written directly as success with amount 0, in the same transaction as
// the purchase.
func (h *ClaimFreeHandler) Handle(ctx context.Context, cmd ClaimFreeCommand) (*domain.Purchase, error) {
	if cmd.StudentID == 0 || cmd.PaperID == 0 {
		return nil, fmt.Errorf("student_id and paper_id are required")
	}

	paper, err := h.papers.GetPaper(ctx, cmd.PaperID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up paper: %w", err)
	}
	if paper == nil || !paper.Purchasable() {
		return nil, domain.ErrPaperNotAvailable
	}
	if paper.Price != 0 {
		return nil, fmt.Errorf("paper is not free: %w", domain.ErrPaperNotAvailable)
	}

	if existing, err := h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrPurchaseNotFound) {
		return nil, fmt.Errorf("failed to check existing purchase: %w", err)
	}

	payment := &domain.Payment{
		StudentID: cmd.StudentID,
		OrderID:   "free_" + uuid.New().String(),
		Amount:    0,
		Currency:  "INR",
		Status:    domain.StatusSuccess,
	}
	purchase := &domain.Purchase{
		PaperID:   cmd.PaperID,
		StudentID: cmd.StudentID,
		Price:     0,
	}

	err = h.store.Grant(ctx, payment, purchase)
	if errors.Is(err, domain.ErrDuplicatePurchase) {
		// A concurrent claim won; the rolled back payment row never became
		// visible, so just return the winner.
		return h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("paper_id", cmd.PaperID).
		Uint("student_id", cmd.StudentID).
		Msg("Free paper claimed")

	return purchase, nil
}
