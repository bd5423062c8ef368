package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/paper/domain"
)

var tracer = otel.Tracer("paper-repository")

// GormPaperRepositoryWithTracing wraps GormPaperRepository with tracing
type GormPaperRepositoryWithTracing struct {
	*GormPaperRepository
}

// NewGormPaperRepositoryWithTracing creates a new repository with tracing
func NewGormPaperRepositoryWithTracing(db *gorm.DB) *GormPaperRepositoryWithTracing {
	return &GormPaperRepositoryWithTracing{
		GormPaperRepository: NewGormPaperRepository(db),
	}
}

// CreateWithContext traces paper creation
func (r *GormPaperRepositoryWithTracing) CreateWithContext(ctx context.Context, paper *domain.Paper) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("paper.title", paper.Title),
			attribute.Int("paper.teacher_id", int(paper.TeacherID)),
			attribute.Int64("paper.price", paper.Price),
		),
	)
	defer span.End()

	err := r.GormPaperRepository.Create(paper)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("paper.id", int(paper.ID)))
	return nil
}

// FindByIDWithContext traces paper lookup
func (r *GormPaperRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id uint) (*domain.Paper, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("paper.id", int(id)),
		),
	)
	defer span.End()

	paper, err := r.GormPaperRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return paper, nil
}
