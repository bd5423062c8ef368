package query

import (
	"fmt"

	"github.com/acadly/paperpay/internal/student/domain"
)

// GetStudentQuery represents the query to get an account by ID
type GetStudentQuery struct {
	ID uint
}

// GetStudentHandler handles get student query
type GetStudentHandler struct {
	repo domain.StudentRepository
}

// NewGetStudentHandler creates a new get student handler
func NewGetStudentHandler(repo domain.StudentRepository) *GetStudentHandler {
	return &GetStudentHandler{repo: repo}
}

// Handle executes the get student query
func (h *GetStudentHandler) Handle(query GetStudentQuery) (*domain.Student, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("invalid student id")
	}

	student, err := h.repo.FindByID(query.ID)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}

	return student, nil
}
