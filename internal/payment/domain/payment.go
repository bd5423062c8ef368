package domain

import (
	"context"
	"errors"
	"time"
)

// Payment represents one gateway order attempt or free-claim event
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"not null;index"`
	OrderID    string    `json:"order_id" gorm:"not null;uniqueIndex"`
	PaymentRef string    `json:"payment_ref"`            // gateway payment id, empty until captured
	Amount     int64     `json:"amount" gorm:"not null"` // minor currency units (paise)
	Currency   string    `json:"currency" gorm:"default:'INR'"`
	Status     string    `json:"status" gorm:"default:'pending'"` // pending, success, failed
	Signature  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// Purchase is the entitlement record: one row grants one student access to one paper.
// The (paper_id, student_id) pair is unique at the storage layer; that constraint,
// not application-level checks, is the final arbiter under concurrent settlers.
type Purchase struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PaperID   uint      `json:"paper_id" gorm:"not null;uniqueIndex:idx_purchases_paper_student"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_purchases_paper_student"`
	PaymentID uint      `json:"payment_id" gorm:"not null"`
	Price     int64     `json:"price"` // minor units actually paid, 0 for coupon/free grants
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Purchase) TableName() string {
	return "purchases"
}

// Payment statuses. Success is terminal: re-applying it is a no-op, never a transition.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Sentinel errors shared by the settlement and coupon flows
var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPaperNotAvailable  = errors.New("paper not available for purchase")
	ErrAlreadyPurchased   = errors.New("paper already purchased")
	ErrNotOwner           = errors.New("payment does not belong to this student")
	ErrSignatureMismatch  = errors.New("signature verification failed")
	ErrPaymentNotCaptured = errors.New("payment not captured by gateway")
	ErrDuplicatePurchase  = errors.New("purchase already exists for paper and student")
)

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uint) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)
	FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]Payment, error)
	FindAll(ctx context.Context, limit, offset int) ([]Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// PurchaseRepository defines the contract for entitlement reads
type PurchaseRepository interface {
	FindByPaperAndStudent(ctx context.Context, paperID, studentID uint) (*Purchase, error)
	FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]Purchase, error)
}

// SettlementStore applies the payment status flip and the purchase insert as one
// atomic unit. A unique-constraint hit on (paper_id, student_id) is reported as
// ErrDuplicatePurchase so callers can re-read the winning row instead of failing.
type SettlementStore interface {
	Settle(ctx context.Context, params SettleParams) (*Purchase, error)
	// Grant inserts a fresh zero-price payment (already marked success) together
	// with its purchase in one transaction. Used by the free-claim and coupon
	// paths, where no prior pending payment exists.
	Grant(ctx context.Context, payment *Payment, purchase *Purchase) error
}

// SettleParams carries everything needed to finalize a payment into a purchase
type SettleParams struct {
	PaymentID  uint
	PaymentRef string
	Signature  string
	PaperID    uint
	StudentID  uint
	Price      int64
}
