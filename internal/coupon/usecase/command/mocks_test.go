//go:build !integration

package command_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/acadly/paperpay/internal/coupon/client"
	"github.com/acadly/paperpay/internal/coupon/domain"
	paymentdomain "github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/kafka"
	"github.com/acadly/paperpay/pkg/logger"
)

func init() {
	logger.Logger = zerolog.New(io.Discard)
}

// -----------------------------
// In-memory coupon repository
// -----------------------------

type memCouponRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[uint]*domain.Coupon

	CreateBatchFunc func(ctx context.Context, coupons []*domain.Coupon) error
	MarkUsedFunc    func(ctx context.Context, couponID uint, usedAt time.Time) error
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{store: make(map[uint]*domain.Coupon)}
}

var _ domain.CouponRepository = (*memCouponRepo)(nil)

func (r *memCouponRepo) CreateBatch(ctx context.Context, coupons []*domain.Coupon) error {
	if r.CreateBatchFunc != nil {
		return r.CreateBatchFunc(ctx, coupons)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range coupons {
		r.seq++
		c.ID = r.seq
		cp := *c
		r.store[c.ID] = &cp
	}
	return nil
}

func (r *memCouponRepo) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.store {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCouponNotFound
}

func (r *memCouponRepo) FindByPaper(ctx context.Context, paperID uint, limit, offset int) ([]*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Coupon
	for _, c := range r.store {
		if c.PaperID == paperID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCouponRepo) FindByStudent(ctx context.Context, studentID uint) ([]*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Coupon
	for _, c := range r.store {
		if c.StudentID == studentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkUsed mirrors the conditional update of the real repository: the flip
// succeeds only when the row is still unused.
func (r *memCouponRepo) MarkUsed(ctx context.Context, couponID uint, usedAt time.Time) error {
	if r.MarkUsedFunc != nil {
		return r.MarkUsedFunc(ctx, couponID, usedAt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.store[couponID]
	if !ok {
		return domain.ErrCouponNotFound
	}
	if c.IsUsed {
		return domain.ErrCouponUsed
	}
	c.IsUsed = true
	c.UsedAt = &usedAt
	return nil
}

func (r *memCouponRepo) DeleteUnused(ctx context.Context, paperID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, c := range r.store {
		if c.PaperID == paperID && !c.IsUsed {
			delete(r.store, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memCouponRepo) add(c *domain.Coupon) *domain.Coupon {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = r.seq
	cp := *c
	r.store[c.ID] = &cp
	return c
}

// -----------------------------
// Entitlement fakes
// -----------------------------

type pairKey struct{ paperID, studentID uint }

type memPurchaseRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[pairKey]*paymentdomain.Purchase
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{store: make(map[pairKey]*paymentdomain.Purchase)}
}

var _ paymentdomain.PurchaseRepository = (*memPurchaseRepo)(nil)

func (r *memPurchaseRepo) FindByPaperAndStudent(ctx context.Context, paperID, studentID uint) (*paymentdomain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[pairKey{paperID, studentID}]
	if !ok {
		return nil, paymentdomain.ErrPurchaseNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPurchaseRepo) FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]paymentdomain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []paymentdomain.Purchase
	for _, p := range r.store {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPurchaseRepo) insert(p *paymentdomain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{p.PaperID, p.StudentID}
	if _, exists := r.store[key]; exists {
		return paymentdomain.ErrDuplicatePurchase
	}
	r.seq++
	p.ID = r.seq
	cp := *p
	r.store[key] = &cp
	return nil
}

func (r *memPurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

type memSettlementStore struct {
	purchases  *memPurchaseRepo
	grantCalls int

	GrantFunc func(ctx context.Context, payment *paymentdomain.Payment, purchase *paymentdomain.Purchase) error
}

var _ paymentdomain.SettlementStore = (*memSettlementStore)(nil)

func (s *memSettlementStore) Settle(ctx context.Context, params paymentdomain.SettleParams) (*paymentdomain.Purchase, error) {
	purchase := &paymentdomain.Purchase{
		PaperID:   params.PaperID,
		StudentID: params.StudentID,
		PaymentID: params.PaymentID,
		Price:     params.Price,
	}
	if err := s.purchases.insert(purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *memSettlementStore) Grant(ctx context.Context, payment *paymentdomain.Payment, purchase *paymentdomain.Purchase) error {
	s.grantCalls++
	if s.GrantFunc != nil {
		return s.GrantFunc(ctx, payment, purchase)
	}
	return s.purchases.insert(purchase)
}

// -----------------------------
// Catalog and publisher fakes
// -----------------------------

type mockPaperProvider struct {
	papers   map[uint]*client.Paper
	students []client.Student

	GetPaperFunc           func(ctx context.Context, paperID uint) (*client.Paper, error)
	ListActiveStudentsFunc func(ctx context.Context, orgID uint) ([]client.Student, error)
}

func newMockPaperProvider(papers ...*client.Paper) *mockPaperProvider {
	m := &mockPaperProvider{papers: make(map[uint]*client.Paper)}
	for _, p := range papers {
		m.papers[p.ID] = p
	}
	return m
}

func (m *mockPaperProvider) GetPaper(ctx context.Context, paperID uint) (*client.Paper, error) {
	if m.GetPaperFunc != nil {
		return m.GetPaperFunc(ctx, paperID)
	}
	return m.papers[paperID], nil
}

func (m *mockPaperProvider) ListActiveStudents(ctx context.Context, orgID uint) ([]client.Student, error) {
	if m.ListActiveStudentsFunc != nil {
		return m.ListActiveStudentsFunc(ctx, orgID)
	}
	return m.students, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []kafka.CouponIssuedEvent

	PublishFunc func(ctx context.Context, event kafka.CouponIssuedEvent) error
}

func (p *mockPublisher) PublishCouponIssued(ctx context.Context, event kafka.CouponIssuedEvent) error {
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, event)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) published() []kafka.CouponIssuedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.CouponIssuedEvent{}, p.events...)
}
