package command

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/acadly/paperpay/internal/coupon/client"
	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/kafka"
	"github.com/acadly/paperpay/pkg/logger"
)

// PaperProvider supplies the catalog data coupon generation depends on
type PaperProvider interface {
	GetPaper(ctx context.Context, paperID uint) (*client.Paper, error)
	ListActiveStudents(ctx context.Context, orgID uint) ([]client.Student, error)
}

// CouponPublisher emits coupon-issued events for the email worker
type CouponPublisher interface {
	PublishCouponIssued(ctx context.Context, event kafka.CouponIssuedEvent) error
}

// GenerateCouponsCommand creates one coupon per active student of the
// organization that owns the paper
type GenerateCouponsCommand struct {
	PaperID uint
	OrgID   uint
}

// GenerateCouponsResult reports what was issued. Errors is human readable;
// generation never propagates a failure to the caller because publishing a
// paper must succeed whether or not coupons went out.
type GenerateCouponsResult struct {
	TotalCoupons int              `json:"total_coupons"`
	Coupons      []*domain.Coupon `json:"coupons"`
	Error        string           `json:"error,omitempty"`
}

// GenerateCouponsHandler handles coupon batch generation
type GenerateCouponsHandler struct {
	coupons   domain.CouponRepository
	papers    PaperProvider
	publisher CouponPublisher
}

// NewGenerateCouponsHandler creates a new generate coupons handler
func NewGenerateCouponsHandler(coupons domain.CouponRepository, papers PaperProvider, publisher CouponPublisher) *GenerateCouponsHandler {
	return &GenerateCouponsHandler{
		coupons:   coupons,
		papers:    papers,
		publisher: publisher,
	}
}

// Handle generates the coupon batch. Any failure collapses into a zero-coupon
// result with a message instead of an error return.
func (h *GenerateCouponsHandler) Handle(ctx context.Context, cmd GenerateCouponsCommand) *GenerateCouponsResult {
	paper, err := h.papers.GetPaper(ctx, cmd.PaperID)
	if err != nil {
		logger.Error(ctx).Err(err).
			Uint("paper_id", cmd.PaperID).
			Msg("Coupon generation: paper lookup failed")
		return &GenerateCouponsResult{Error: "Could not look up paper"}
	}
	if paper == nil {
		return &GenerateCouponsResult{Error: "Paper not found"}
	}

	students, err := h.papers.ListActiveStudents(ctx, cmd.OrgID)
	if err != nil {
		logger.Error(ctx).Err(err).
			Uint("org_id", cmd.OrgID).
			Msg("Coupon generation: organization lookup failed")
		return &GenerateCouponsResult{Error: "Could not list organization students"}
	}
	if len(students) == 0 {
		return &GenerateCouponsResult{Coupons: []*domain.Coupon{}}
	}

	prefix := codePrefix(paper.Title)
	coupons := make([]*domain.Coupon, 0, len(students))
	for _, student := range students {
		coupons = append(coupons, &domain.Coupon{
			Code:      prefix + "-" + codeSuffix(),
			PaperID:   cmd.PaperID,
			StudentID: student.ID,
		})
	}

	if err := h.coupons.CreateBatch(ctx, coupons); err != nil {
		logger.Error(ctx).Err(err).
			Uint("paper_id", cmd.PaperID).
			Int("count", len(coupons)).
			Msg("Coupon generation: batch insert failed")
		return &GenerateCouponsResult{Error: "Could not store coupons"}
	}

	logger.Info(ctx).
		Uint("paper_id", cmd.PaperID).
		Int("count", len(coupons)).
		Msg("Coupon batch generated")

	if h.publisher != nil {
		h.publishIssued(ctx, paper, coupons, students)
	}

	return &GenerateCouponsResult{
		TotalCoupons: len(coupons),
		Coupons:      coupons,
	}
}

// publishIssued emits one event per coupon. Publish failures are logged and
// dropped; the batch is already durable.
func (h *GenerateCouponsHandler) publishIssued(ctx context.Context, paper *client.Paper, coupons []*domain.Coupon, students []client.Student) {
	emails := make(map[uint]string, len(students))
	for _, s := range students {
		emails[s.ID] = s.Email
	}

	for _, coupon := range coupons {
		event := kafka.CouponIssuedEvent{
			EventID:      uuid.New().String(),
			EventType:    kafka.EventTypeCouponIssued,
			CouponID:     coupon.ID,
			Code:         coupon.Code,
			PaperID:      coupon.PaperID,
			PaperTitle:   paper.Title,
			StudentID:    coupon.StudentID,
			StudentEmail: emails[coupon.StudentID],
			Timestamp:    time.Now(),
		}
		if err := h.publisher.PublishCouponIssued(ctx, event); err != nil {
			logger.Error(ctx).Err(err).
				Str("code", coupon.Code).
				Uint("student_id", coupon.StudentID).
				Msg("Failed to publish coupon issued event")
		}
	}
}

// codePrefix derives the short code prefix from a paper title: the first four
// letters, upper cased, padded with X for very short titles.
func codePrefix(title string) string {
	letters := make([]rune, 0, 4)
	for _, r := range title {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 4 {
				break
			}
		}
	}
	for len(letters) < 4 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

func codeSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
