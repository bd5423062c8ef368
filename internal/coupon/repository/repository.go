package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acadly/paperpay/internal/coupon/domain"
)

type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Coupon{})
}

// CreateBatch inserts coupons for a paper in one statement. Rows that
// collide with an existing (paper_id, student_id) pair are skipped, so
// re-publishing a paper tops up missing coupons without duplicating ones
// already issued.
func (r *GormCouponRepository) CreateBatch(ctx context.Context, coupons []*domain.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(&coupons).Error
}

func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *GormCouponRepository) FindByPaper(ctx context.Context, paperID uint, limit, offset int) ([]*domain.Coupon, error) {
	var coupons []*domain.Coupon
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", paperID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

func (r *GormCouponRepository) FindByStudent(ctx context.Context, studentID uint) ([]*domain.Coupon, error) {
	var coupons []*domain.Coupon
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

// MarkUsed is a compare-and-set on is_used. The WHERE clause only matches
// the unused row, so of two concurrent redemptions exactly one sees
// RowsAffected == 1; the other gets ErrCouponUsed.
func (r *GormCouponRepository) MarkUsed(ctx context.Context, couponID uint, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Coupon{}).
		Where("id = ? AND is_used = ?", couponID, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponUsed
	}
	return nil
}

func (r *GormCouponRepository) DeleteUnused(ctx context.Context, paperID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("paper_id = ? AND is_used = ?", paperID, false).
		Delete(&domain.Coupon{})
	return result.RowsAffected, result.Error
}
