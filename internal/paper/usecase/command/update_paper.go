package command

import (
	"fmt"
	"time"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// UpdatePaperCommand represents the command to update a paper
type UpdatePaperCommand struct {
	ID          uint
	TeacherID   uint
	Title       string
	Description string
	Subject     string
	Standard    string
	Price       *int64
}

// UpdatePaperHandler handles paper update command
type UpdatePaperHandler struct {
	repo domain.PaperRepository
}

// NewUpdatePaperHandler creates a new update paper handler
func NewUpdatePaperHandler(repo domain.PaperRepository) *UpdatePaperHandler {
	return &UpdatePaperHandler{repo: repo}
}

// Handle executes the update paper command. Only the owning teacher may edit.
func (h *UpdatePaperHandler) Handle(cmd UpdatePaperCommand) (*domain.Paper, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("invalid paper id")
	}

	paper, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("paper not found")
	}
	if paper.TeacherID != cmd.TeacherID {
		return nil, fmt.Errorf("paper belongs to another teacher")
	}

	// Update fields if provided
	if cmd.Title != "" {
		paper.Title = cmd.Title
	}
	if cmd.Description != "" {
		paper.Description = cmd.Description
	}
	if cmd.Subject != "" {
		paper.Subject = cmd.Subject
	}
	if cmd.Standard != "" {
		paper.Standard = cmd.Standard
	}
	if cmd.Price != nil {
		if *cmd.Price < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		paper.Price = *cmd.Price
	}

	paper.UpdatedAt = time.Now()

	if err := h.repo.Update(paper); err != nil {
		return nil, fmt.Errorf("failed to update paper: %w", err)
	}

	return paper, nil
}
