//go:build !integration

package command_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/acadly/paperpay/internal/coupon/client"
	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/internal/coupon/usecase/command"
	"github.com/acadly/paperpay/kafka"
)

var codePattern = regexp.MustCompile(`^[A-ZX]{4}-[0-9A-F]{8}$`)

func TestGenerateCouponsHandler_Handle(t *testing.T) {
	ctx := context.Background()

	paper := &client.Paper{ID: 7, Title: "Mathematics Finals", OrgID: 3}
	roster := []client.Student{
		{ID: 12, Email: "ada@example.com"},
		{ID: 13, Email: "alan@example.com"},
		{ID: 14, Email: "grace@example.com"},
	}

	t.Run("issues one coupon per active student", func(t *testing.T) {
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider(paper)
		papers.students = roster
		publisher := &mockPublisher{}

		result := command.NewGenerateCouponsHandler(coupons, papers, publisher).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 7, OrgID: 3})

		if result.Error != "" {
			t.Fatalf("expected no error message, got %q", result.Error)
		}
		if result.TotalCoupons != 3 {
			t.Fatalf("expected 3 coupons, got %d", result.TotalCoupons)
		}

		seen := make(map[uint]bool)
		for _, c := range result.Coupons {
			if !codePattern.MatchString(c.Code) {
				t.Errorf("code %q does not match the PREFIX-SUFFIX format", c.Code)
			}
			if !strings.HasPrefix(c.Code, "MATH-") {
				t.Errorf("expected the title-derived MATH prefix, got %q", c.Code)
			}
			seen[c.StudentID] = true
		}
		if len(seen) != 3 {
			t.Errorf("expected one coupon per student, got %v", seen)
		}

		events := publisher.published()
		if len(events) != 3 {
			t.Fatalf("expected 3 issued events, got %d", len(events))
		}
		for _, e := range events {
			if e.PaperTitle != "Mathematics Finals" || e.StudentEmail == "" {
				t.Errorf("event missing enrichment: %+v", e)
			}
		}
	})

	t.Run("an empty roster issues nothing and is not an error", func(t *testing.T) {
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider(paper)

		result := command.NewGenerateCouponsHandler(coupons, papers, nil).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 7, OrgID: 3})

		if result.Error != "" {
			t.Fatalf("expected no error message, got %q", result.Error)
		}
		if result.TotalCoupons != 0 || len(result.Coupons) != 0 {
			t.Errorf("expected an empty batch, got %+v", result)
		}
	})

	t.Run("a missing paper collapses to a zero-coupon result", func(t *testing.T) {
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider()

		result := command.NewGenerateCouponsHandler(coupons, papers, nil).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 999, OrgID: 3})

		if result.Error != "Paper not found" {
			t.Fatalf("expected the paper-not-found message, got %+v", result)
		}
	})

	t.Run("a roster lookup failure collapses to a zero-coupon result", func(t *testing.T) {
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider(paper)
		papers.ListActiveStudentsFunc = func(ctx context.Context, orgID uint) ([]client.Student, error) {
			return nil, fmt.Errorf("org service unreachable")
		}

		result := command.NewGenerateCouponsHandler(coupons, papers, nil).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 7, OrgID: 3})

		if result.Error != "Could not list organization students" {
			t.Fatalf("expected the roster message, got %+v", result)
		}
	})

	t.Run("a store failure collapses to a zero-coupon result", func(t *testing.T) {
		coupons := newMemCouponRepo()
		coupons.CreateBatchFunc = func(ctx context.Context, batch []*domain.Coupon) error {
			return fmt.Errorf("database down")
		}
		papers := newMockPaperProvider(paper)
		papers.students = roster

		result := command.NewGenerateCouponsHandler(coupons, papers, nil).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 7, OrgID: 3})

		if result.Error != "Could not store coupons" {
			t.Fatalf("expected the store message, got %+v", result)
		}
	})

	t.Run("publish failures do not fail the batch", func(t *testing.T) {
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider(paper)
		papers.students = roster
		failing := &mockPublisher{
			PublishFunc: func(ctx context.Context, event kafka.CouponIssuedEvent) error {
				return fmt.Errorf("broker down")
			},
		}

		result := command.NewGenerateCouponsHandler(coupons, papers, failing).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 7, OrgID: 3})

		if result.Error != "" {
			t.Fatalf("a broker outage must not fail generation, got %q", result.Error)
		}
		if result.TotalCoupons != 3 {
			t.Errorf("expected the batch stored despite publish failures, got %d", result.TotalCoupons)
		}
	})

	t.Run("short titles pad the prefix with X", func(t *testing.T) {
		short := &client.Paper{ID: 8, Title: "Go 101", OrgID: 3}
		coupons := newMemCouponRepo()
		papers := newMockPaperProvider(short)
		papers.students = roster[:1]

		result := command.NewGenerateCouponsHandler(coupons, papers, nil).
			Handle(ctx, command.GenerateCouponsCommand{PaperID: 8, OrgID: 3})

		if result.TotalCoupons != 1 {
			t.Fatalf("expected one coupon, got %+v", result)
		}
		if !strings.HasPrefix(result.Coupons[0].Code, "GOXX-") {
			t.Errorf("expected the padded GOXX prefix, got %q", result.Coupons[0].Code)
		}
	})
}
