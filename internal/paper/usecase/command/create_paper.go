package command

import (
	"fmt"
	"time"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// CreatePaperCommand represents the command to create a new paper
type CreatePaperCommand struct {
	Title       string
	Description string
	Subject     string
	Standard    string
	Price       int64
	TeacherID   uint
	OrgID       uint
}

// CreatePaperHandler handles paper creation command
type CreatePaperHandler struct {
	repo domain.PaperRepository
}

// NewCreatePaperHandler creates a new create paper handler
func NewCreatePaperHandler(repo domain.PaperRepository) *CreatePaperHandler {
	return &CreatePaperHandler{repo: repo}
}

// Handle executes the create paper command. New papers start as drafts.
func (h *CreatePaperHandler) Handle(cmd CreatePaperCommand) (*domain.Paper, error) {
	// Validation
	if cmd.Title == "" {
		return nil, fmt.Errorf("paper title is required")
	}
	if cmd.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if cmd.TeacherID == 0 {
		return nil, fmt.Errorf("teacher id is required")
	}
	if cmd.OrgID == 0 {
		return nil, fmt.Errorf("organization id is required")
	}

	paper := &domain.Paper{
		Title:       cmd.Title,
		Description: cmd.Description,
		Subject:     cmd.Subject,
		Standard:    cmd.Standard,
		Price:       cmd.Price,
		Status:      domain.StatusDraft,
		TeacherID:   cmd.TeacherID,
		OrgID:       cmd.OrgID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.repo.Create(paper); err != nil {
		return nil, fmt.Errorf("failed to create paper: %w", err)
	}

	return paper, nil
}
