package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/coupon/domain"
)

var tracer = otel.Tracer("coupon-repository")

// GormCouponRepositoryWithTracing wraps GormCouponRepository with tracing
type GormCouponRepositoryWithTracing struct {
	*GormCouponRepository
}

// NewGormCouponRepositoryWithTracing creates a coupon repository with tracing
func NewGormCouponRepositoryWithTracing(db *gorm.DB) *GormCouponRepositoryWithTracing {
	return &GormCouponRepositoryWithTracing{
		GormCouponRepository: NewGormCouponRepository(db),
	}
}

// CreateBatch with tracing
func (r *GormCouponRepositoryWithTracing) CreateBatch(ctx context.Context, coupons []*domain.Coupon) error {
	ctx, span := tracer.Start(ctx, "repository.CreateBatch",
		trace.WithAttributes(
			attribute.Int("coupon.count", len(coupons)),
		),
	)
	defer span.End()

	if err := r.GormCouponRepository.CreateBatch(ctx, coupons); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// FindByCode with tracing
func (r *GormCouponRepositoryWithTracing) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByCode",
		trace.WithAttributes(
			attribute.String("coupon.code", code),
		),
	)
	defer span.End()

	coupon, err := r.GormCouponRepository.FindByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("coupon.id", int(coupon.ID)))
	return coupon, nil
}

// MarkUsed with tracing
func (r *GormCouponRepositoryWithTracing) MarkUsed(ctx context.Context, couponID uint, usedAt time.Time) error {
	ctx, span := tracer.Start(ctx, "repository.MarkUsed",
		trace.WithAttributes(
			attribute.Int("coupon.id", int(couponID)),
		),
	)
	defer span.End()

	if err := r.GormCouponRepository.MarkUsed(ctx, couponID, usedAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
