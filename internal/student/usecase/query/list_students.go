package query

import (
	"github.com/acadly/paperpay/internal/student/domain"
)

// ListStudentsQuery represents the query to list accounts
type ListStudentsQuery struct {
	Limit  int
	Offset int
}

// ListStudentsHandler handles list students query
type ListStudentsHandler struct {
	repo domain.StudentRepository
}

// NewListStudentsHandler creates a new list students handler
func NewListStudentsHandler(repo domain.StudentRepository) *ListStudentsHandler {
	return &ListStudentsHandler{repo: repo}
}

// Handle executes the list students query
func (h *ListStudentsHandler) Handle(q ListStudentsQuery) ([]domain.Student, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return h.repo.FindAll(q.Limit, q.Offset)
}
