//go:build !integration

package command_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/acadly/paperpay/internal/paper/domain"
	"github.com/acadly/paperpay/internal/paper/usecase/command"
	"github.com/acadly/paperpay/pkg/logger"
)

func init() {
	logger.Logger = zerolog.New(io.Discard)
}

type memPaperRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[uint]*domain.Paper

	UpdateFunc func(paper *domain.Paper) error
}

func newMemPaperRepo() *memPaperRepo {
	return &memPaperRepo{store: make(map[uint]*domain.Paper)}
}

var _ domain.PaperRepository = (*memPaperRepo)(nil)

func (r *memPaperRepo) Create(paper *domain.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	paper.ID = r.seq
	cp := *paper
	r.store[paper.ID] = &cp
	return nil
}

func (r *memPaperRepo) FindByID(id uint) (*domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.store[id]
	if !ok {
		return nil, fmt.Errorf("paper not found")
	}
	cp := *p
	return &cp, nil
}

func (r *memPaperRepo) FindAll(limit, offset int) ([]domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Paper
	for _, p := range r.store {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPaperRepo) FindByTeacher(teacherID uint, limit, offset int) ([]domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Paper
	for _, p := range r.store {
		if p.TeacherID == teacherID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPaperRepo) FindByOrg(orgID uint, limit, offset int) ([]domain.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Paper
	for _, p := range r.store {
		if p.OrgID == orgID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPaperRepo) Update(paper *domain.Paper) error {
	if r.UpdateFunc != nil {
		return r.UpdateFunc(paper)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[paper.ID]; !ok {
		return fmt.Errorf("paper not found")
	}
	cp := *paper
	r.store[paper.ID] = &cp
	return nil
}

func (r *memPaperRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
	return nil
}

func (r *memPaperRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.store)), nil
}

type mockCouponIssuer struct {
	calls int
	token string

	GenerateCouponsFunc func(ctx context.Context, token string, paperID, orgID uint) (*command.CouponBatch, error)
}

func (m *mockCouponIssuer) GenerateCoupons(ctx context.Context, token string, paperID, orgID uint) (*command.CouponBatch, error) {
	m.calls++
	m.token = token
	if m.GenerateCouponsFunc != nil {
		return m.GenerateCouponsFunc(ctx, token, paperID, orgID)
	}
	return &command.CouponBatch{TotalCoupons: 5}, nil
}

func TestPublishPaperHandler_Handle(t *testing.T) {
	ctx := context.Background()

	seedDraft := func(t *testing.T, repo *memPaperRepo) *domain.Paper {
		t.Helper()
		paper := &domain.Paper{Title: "Algebra Midterm", Price: 49900, TeacherID: 5, OrgID: 3, Status: domain.StatusDraft}
		if err := repo.Create(paper); err != nil {
			t.Fatal(err)
		}
		return paper
	}

	t.Run("publishes the paper and reports the coupon batch", func(t *testing.T) {
		repo := newMemPaperRepo()
		paper := seedDraft(t, repo)
		issuer := &mockCouponIssuer{}

		result, err := command.NewPublishPaperHandler(repo, issuer).
			Handle(ctx, command.PublishPaperCommand{ID: paper.ID, TeacherID: 5, Token: "jwt-token"})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.Paper.Status != domain.StatusPublished || !result.Paper.IsPublic {
			t.Errorf("expected a published public paper, got %+v", result.Paper)
		}
		if result.TotalCoupons != 5 {
			t.Errorf("expected 5 coupons reported, got %d", result.TotalCoupons)
		}
		if issuer.token != "jwt-token" {
			t.Errorf("expected the caller token forwarded, got %q", issuer.token)
		}

		stored, _ := repo.FindByID(paper.ID)
		if stored.Status != domain.StatusPublished {
			t.Errorf("expected the flip persisted, got %q", stored.Status)
		}
	})

	t.Run("a coupon service outage does not unpublish the paper", func(t *testing.T) {
		repo := newMemPaperRepo()
		paper := seedDraft(t, repo)
		issuer := &mockCouponIssuer{
			GenerateCouponsFunc: func(ctx context.Context, token string, paperID, orgID uint) (*command.CouponBatch, error) {
				return nil, fmt.Errorf("coupon service unreachable")
			},
		}

		result, err := command.NewPublishPaperHandler(repo, issuer).
			Handle(ctx, command.PublishPaperCommand{ID: paper.ID, TeacherID: 5})
		if err != nil {
			t.Fatalf("publishing must survive a coupon outage, got: %v", err)
		}
		if result.CouponError == "" {
			t.Error("expected a coupon error report")
		}

		stored, _ := repo.FindByID(paper.ID)
		if stored.Status != domain.StatusPublished {
			t.Errorf("expected the paper to stay published, got %q", stored.Status)
		}
	})

	t.Run("publishing an already published paper is a no-op", func(t *testing.T) {
		repo := newMemPaperRepo()
		paper := seedDraft(t, repo)
		paper.Status = domain.StatusPublished
		paper.IsPublic = true
		if err := repo.Update(paper); err != nil {
			t.Fatal(err)
		}
		issuer := &mockCouponIssuer{}

		result, err := command.NewPublishPaperHandler(repo, issuer).
			Handle(ctx, command.PublishPaperCommand{ID: paper.ID, TeacherID: 5})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if result.Paper.Status != domain.StatusPublished {
			t.Errorf("unexpected status %q", result.Paper.Status)
		}
		if issuer.calls != 0 {
			t.Errorf("expected no coupon call on republish, got %d", issuer.calls)
		}
	})

	t.Run("rejects a publish by a different teacher", func(t *testing.T) {
		repo := newMemPaperRepo()
		paper := seedDraft(t, repo)

		_, err := command.NewPublishPaperHandler(repo, &mockCouponIssuer{}).
			Handle(ctx, command.PublishPaperCommand{ID: paper.ID, TeacherID: 99})
		if err == nil {
			t.Fatal("expected an ownership error, got nil")
		}

		stored, _ := repo.FindByID(paper.ID)
		if stored.Status != domain.StatusDraft {
			t.Errorf("expected the paper untouched, got %q", stored.Status)
		}
	})
}
