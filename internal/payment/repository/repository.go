package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/payment/domain"
)

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Payment{}, &domain.Purchase{})
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GormPurchaseRepository reads the entitlement records
type GormPurchaseRepository struct {
	db *gorm.DB
}

func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) FindByPaperAndStudent(ctx context.Context, paperID, studentID uint) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.db.WithContext(ctx).
		Where("paper_id = ? AND student_id = ?", paperID, studentID).
		First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *GormPurchaseRepository) FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// GormSettlementStore finalizes payments inside a single database transaction
type GormSettlementStore struct {
	db *gorm.DB
}

func NewGormSettlementStore(db *gorm.DB) *GormSettlementStore {
	return &GormSettlementStore{db: db}
}

// Settle flips the payment to success and inserts the purchase as one unit.
// Both apply or neither does; a "paid but no access" window is never observable.
// A unique-violation on (paper_id, student_id) means a concurrent settler won
// the race and is reported as domain.ErrDuplicatePurchase with no other state
// change lost: the winner's transaction already recorded the success status.
func (s *GormSettlementStore) Settle(ctx context.Context, params domain.SettleParams) (*domain.Purchase, error) {
	purchase := &domain.Purchase{
		PaperID:   params.PaperID,
		StudentID: params.StudentID,
		PaymentID: params.PaymentID,
		Price:     params.Price,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": domain.StatusSuccess}
		if params.PaymentRef != "" {
			updates["payment_ref"] = params.PaymentRef
		}
		if params.Signature != "" {
			updates["signature"] = params.Signature
		}

		if err := tx.Model(&domain.Payment{}).
			Where("id = ?", params.PaymentID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark payment success: %w", err)
		}

		if err := tx.Create(purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicatePurchase
			}
			return fmt.Errorf("failed to insert purchase: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// Grant inserts a success payment and its purchase together. On a duplicate
// purchase the whole transaction rolls back, so no orphan success payment row
// is left behind; callers re-read the winning purchase.
func (s *GormSettlementStore) Grant(ctx context.Context, payment *domain.Payment, purchase *domain.Purchase) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		purchase.PaymentID = payment.ID
		if err := tx.Create(purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicatePurchase
			}
			return fmt.Errorf("failed to insert purchase: %w", err)
		}

		return nil
	})
}
