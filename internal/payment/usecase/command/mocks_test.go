//go:build !integration

package command_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/acadly/paperpay/internal/payment/client"
	"github.com/acadly/paperpay/internal/payment/domain"
	"github.com/acadly/paperpay/internal/payment/gateway"
	"github.com/acadly/paperpay/pkg/logger"
)

func init() {
	logger.Logger = zerolog.New(io.Discard)
}

// -----------------------------
// In-memory payment repository
// -----------------------------

type memPaymentRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[uint]*domain.Payment

	CreateFunc       func(ctx context.Context, payment *domain.Payment) error
	UpdateStatusFunc func(ctx context.Context, id uint, status string) error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[uint]*domain.Payment)}
}

var _ domain.PaymentRepository = (*memPaymentRepo)(nil)

func (r *memPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, payment)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	payment.ID = r.seq
	cp := *payment
	r.store[payment.ID] = &cp
	return nil
}

func (r *memPaymentRepo) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.store {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *memPaymentRepo) FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.store {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.store {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPaymentRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	if r.UpdateStatusFunc != nil {
		return r.UpdateStatusFunc(ctx, id, status)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = status
	return nil
}

// statusOf reads the stored status directly, bypassing overrides.
func (r *memPaymentRepo) statusOf(id uint) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.store[id]; ok {
		return p.Status
	}
	return ""
}

func (r *memPaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

// -----------------------------
// In-memory purchase repository
// -----------------------------

type pairKey struct{ paperID, studentID uint }

type memPurchaseRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[pairKey]*domain.Purchase

	FindByPaperAndStudentFunc func(ctx context.Context, paperID, studentID uint) (*domain.Purchase, error)
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{store: make(map[pairKey]*domain.Purchase)}
}

var _ domain.PurchaseRepository = (*memPurchaseRepo)(nil)

func (r *memPurchaseRepo) FindByPaperAndStudent(ctx context.Context, paperID, studentID uint) (*domain.Purchase, error) {
	if r.FindByPaperAndStudentFunc != nil {
		return r.FindByPaperAndStudentFunc(ctx, paperID, studentID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[pairKey{paperID, studentID}]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPurchaseRepo) FindByStudentID(ctx context.Context, studentID uint, limit, offset int) ([]domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Purchase
	for _, p := range r.store {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// insert mimics the storage unique constraint on (paper_id, student_id).
func (r *memPurchaseRepo) insert(purchase *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{purchase.PaperID, purchase.StudentID}
	if _, exists := r.store[key]; exists {
		return domain.ErrDuplicatePurchase
	}
	r.seq++
	purchase.ID = r.seq
	cp := *purchase
	r.store[key] = &cp
	return nil
}

func (r *memPurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

// -----------------------------
// Settlement store backed by the two repos above
// -----------------------------

type memSettlementStore struct {
	payments  *memPaymentRepo
	purchases *memPurchaseRepo

	settleCalls int
	grantCalls  int

	SettleFunc func(ctx context.Context, params domain.SettleParams) (*domain.Purchase, error)
	GrantFunc  func(ctx context.Context, payment *domain.Payment, purchase *domain.Purchase) error
}

func newMemSettlementStore(payments *memPaymentRepo, purchases *memPurchaseRepo) *memSettlementStore {
	return &memSettlementStore{payments: payments, purchases: purchases}
}

var _ domain.SettlementStore = (*memSettlementStore)(nil)

func (s *memSettlementStore) Settle(ctx context.Context, params domain.SettleParams) (*domain.Purchase, error) {
	s.settleCalls++
	if s.SettleFunc != nil {
		return s.SettleFunc(ctx, params)
	}
	purchase := &domain.Purchase{
		PaperID:   params.PaperID,
		StudentID: params.StudentID,
		PaymentID: params.PaymentID,
		Price:     params.Price,
	}
	if err := s.purchases.insert(purchase); err != nil {
		return nil, err
	}
	if err := s.payments.UpdateStatus(ctx, params.PaymentID, domain.StatusSuccess); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *memSettlementStore) Grant(ctx context.Context, payment *domain.Payment, purchase *domain.Purchase) error {
	s.grantCalls++
	if s.GrantFunc != nil {
		return s.GrantFunc(ctx, payment, purchase)
	}
	// Duplicate check first so a losing grant leaves no payment row behind,
	// matching the transactional rollback of the real store.
	s.purchases.mu.Lock()
	_, exists := s.purchases.store[pairKey{purchase.PaperID, purchase.StudentID}]
	s.purchases.mu.Unlock()
	if exists {
		return domain.ErrDuplicatePurchase
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return err
	}
	purchase.PaymentID = payment.ID
	return s.purchases.insert(purchase)
}

// -----------------------------
// Gateway and paper provider fakes
// -----------------------------

type mockGateway struct {
	createCalls int
	fetchCalls  int

	CreateOrderFunc  func(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
	FetchPaymentFunc func(ctx context.Context, paymentRef string) (*gateway.PaymentDetails, error)
}

var _ gateway.Gateway = (*mockGateway)(nil)

func (g *mockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.createCalls++
	if g.CreateOrderFunc != nil {
		return g.CreateOrderFunc(ctx, req)
	}
	return &gateway.Order{
		ID:       fmt.Sprintf("order_test%d", g.createCalls),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *mockGateway) FetchPayment(ctx context.Context, paymentRef string) (*gateway.PaymentDetails, error) {
	g.fetchCalls++
	if g.FetchPaymentFunc != nil {
		return g.FetchPaymentFunc(ctx, paymentRef)
	}
	return &gateway.PaymentDetails{ID: paymentRef, Status: gateway.Captured}, nil
}

type mockPaperProvider struct {
	papers map[uint]*client.Paper

	GetPaperFunc func(ctx context.Context, paperID uint) (*client.Paper, error)
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
