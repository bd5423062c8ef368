package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acadly/paperpay/internal/coupon/domain"
	paymentdomain "github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/pkg/logger"
)

// RedeemCouponCommand redeems a single-use code for the calling student
type RedeemCouponCommand struct {
	Code      string
	PaperID   uint
	StudentID uint
}

// RedeemResult is the user-facing outcome of a redemption attempt. Invalid
// attempts are routine, so they come back as a result with Valid=false and a
// specific message rather than as an error.
type RedeemResult struct {
	Valid    bool                    `json:"valid"`
	Message  string                  `json:"message"`
	Purchase *paymentdomain.Purchase `json:"purchase,omitempty"`
}

// RedeemCouponHandler handles coupon redemption
type RedeemCouponHandler struct {
	coupons   domain.CouponRepository
	purchases paymentdomain.PurchaseRepository
	store     paymentdomain.SettlementStore
}

// NewRedeemCouponHandler creates a new redeem coupon handler
func NewRedeemCouponHandler(coupons domain.CouponRepository, purchases paymentdomain.PurchaseRepository, store paymentdomain.SettlementStore) *RedeemCouponHandler {
	return &RedeemCouponHandler{
		coupons:   coupons,
		purchases: purchases,
		store:     store,
	}
}

// Handle validates the code in order and, when everything checks out, flips
// the single-use flag and grants the purchase. The flip is a compare-and-set:
// of two racing redemptions of the same code only one passes MarkUsed, the
// other gets the already-used message. An error return means the store itself
// failed, not that the coupon was invalid.
func (h *RedeemCouponHandler) Handle(ctx context.Context, cmd RedeemCouponCommand) (*RedeemResult, error) {
	coupon, err := h.coupons.FindByCode(ctx, cmd.Code)
	if errors.Is(err, domain.ErrCouponNotFound) {
		return &RedeemResult{Message: "Invalid coupon code"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if coupon.PaperID != cmd.PaperID {
		return &RedeemResult{Message: "This coupon is for a different paper"}, nil
	}
	if coupon.StudentID != cmd.StudentID {
		return &RedeemResult{Message: "This coupon is not assigned to you"}, nil
	}
	if coupon.IsUsed {
		return &RedeemResult{Message: "This coupon has already been used"}, nil
	}
	if coupon.Expired(time.Now()) {
		return &RedeemResult{Message: "This coupon has expired"}, nil
	}

	if err := h.coupons.MarkUsed(ctx, coupon.ID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrCouponUsed) {
			// Lost the race to a concurrent redemption of the same code.
			return &RedeemResult{Message: "This coupon has already been used"}, nil
		}
		return nil, fmt.Errorf("failed to consume coupon: %w", err)
	}

	payment := &paymentdomain.Payment{
		StudentID: cmd.StudentID,
		OrderID:   "coupon_" + uuid.New().String(),
		Amount:    0,
		Currency:  "INR",
		Status:    paymentdomain.StatusSuccess,
	}
	purchase := &paymentdomain.Purchase{
		PaperID:   cmd.PaperID,
		StudentID: cmd.StudentID,
		Price:     0,
	}

	err = h.store.Grant(ctx, payment, purchase)
	if errors.Is(err, paymentdomain.ErrDuplicatePurchase) {
		// The student already holds access through another channel. The code
		// is consumed either way; report the access they have.
		existing, findErr := h.purchases.FindByPaperAndStudent(ctx, cmd.PaperID, cmd.StudentID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to load existing purchase: %w", findErr)
		}
		return &RedeemResult{
			Valid:    true,
			Message:  "You already have access to this paper",
			Purchase: existing,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("code", cmd.Code).
		Uint("paper_id", cmd.PaperID).
		Uint("student_id", cmd.StudentID).
		Msg("Coupon redeemed")

	return &RedeemResult{
		Valid:    true,
		Message:  "Coupon redeemed successfully",
		Purchase: purchase,
	}, nil
}
