package domain

import (
	"context"
	"errors"
	"time"
)

// Coupon grants one named student free access to one paper. A coupon is
// single use: redemption flips IsUsed exactly once, and the flip is what
// authorizes the entitlement write.
type Coupon struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Code      string     `json:"code" gorm:"uniqueIndex;not null"`
	PaperID   uint       `json:"paper_id" gorm:"uniqueIndex:idx_coupons_paper_student;not null"`
	StudentID uint       `json:"student_id" gorm:"uniqueIndex:idx_coupons_paper_student;not null"`
	IsUsed    bool       `json:"is_used" gorm:"default:false"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Expired reports whether the coupon carries an expiry that has passed.
// Coupons without an expiry never expire.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponUsed     = errors.New("coupon already used")
	ErrCouponExists   = errors.New("coupon already exists for this paper and student")
)

// CouponRepository defines coupon data access
type CouponRepository interface {
	CreateBatch(ctx context.Context, coupons []*Coupon) error
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindByPaper(ctx context.Context, paperID uint, limit, offset int) ([]*Coupon, error)
	FindByStudent(ctx context.Context, studentID uint) ([]*Coupon, error)
	// MarkUsed flips IsUsed from false to true for the given coupon. It
	// returns ErrCouponUsed when the row was already used, so two
	// concurrent redemptions of the same code resolve to one winner.
	MarkUsed(ctx context.Context, couponID uint, usedAt time.Time) error
	DeleteUnused(ctx context.Context, paperID uint) (int64, error)
}
