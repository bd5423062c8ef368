package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/payment/domain"
)

var tracer = otel.Tracer("payment-repository")

// GormSettlementStoreWithTracing wraps GormSettlementStore with tracing
type GormSettlementStoreWithTracing struct {
	*GormSettlementStore
}

// NewGormSettlementStoreWithTracing creates a settlement store with tracing
func NewGormSettlementStoreWithTracing(db *gorm.DB) *GormSettlementStoreWithTracing {
	return &GormSettlementStoreWithTracing{
		GormSettlementStore: NewGormSettlementStore(db),
	}
}

// Settle with tracing
func (s *GormSettlementStoreWithTracing) Settle(ctx context.Context, params domain.SettleParams) (*domain.Purchase, error) {
	ctx, span := tracer.Start(ctx, "repository.Settle",
		trace.WithAttributes(
			attribute.Int("payment.id", int(params.PaymentID)),
			attribute.Int("paper.id", int(params.PaperID)),
			attribute.Int("student.id", int(params.StudentID)),
		),
	)
	defer span.End()

	purchase, err := s.GormSettlementStore.Settle(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("purchase.id", int(purchase.ID)))
	return purchase, nil
}

// GormPaymentRepositoryWithTracing wraps GormPaymentRepository with tracing
type GormPaymentRepositoryWithTracing struct {
	*GormPaymentRepository
}

// NewGormPaymentRepositoryWithTracing creates a payment repository with tracing
func NewGormPaymentRepositoryWithTracing(db *gorm.DB) *GormPaymentRepositoryWithTracing {
	return &GormPaymentRepositoryWithTracing{
		GormPaymentRepository: NewGormPaymentRepository(db),
	}
}

// FindByOrderID with tracing
func (r *GormPaymentRepositoryWithTracing) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByOrderID",
		trace.WithAttributes(
			attribute.String("payment.order_id", orderID),
		),
	)
	defer span.End()

	payment, err := r.GormPaymentRepository.FindByOrderID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("payment.id", int(payment.ID)))
	return payment, nil
}

// Create with tracing
func (r *GormPaymentRepositoryWithTracing) Create(ctx context.Context, payment *domain.Payment) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("payment.order_id", payment.OrderID),
			attribute.Int64("payment.amount", payment.Amount),
		),
	)
	defer span.End()

	if err := r.GormPaymentRepository.Create(ctx, payment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("payment.id", int(payment.ID)))
	return nil
}
