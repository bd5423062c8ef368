package command

import (
	"fmt"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// DeletePaperCommand represents the command to delete a paper
type DeletePaperCommand struct {
	ID        uint
	TeacherID uint
}

// DeletePaperHandler handles paper deletion command
type DeletePaperHandler struct {
	repo domain.PaperRepository
}

// NewDeletePaperHandler creates a new delete paper handler
func NewDeletePaperHandler(repo domain.PaperRepository) *DeletePaperHandler {
	return &DeletePaperHandler{repo: repo}
}

// Handle executes the delete paper command
func (h *DeletePaperHandler) Handle(cmd DeletePaperCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("invalid paper id")
	}

	paper, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return fmt.Errorf("paper not found")
	}
	if paper.TeacherID != cmd.TeacherID {
		return fmt.Errorf("paper belongs to another teacher")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete paper: %w", err)
	}

	return nil
}
