package query

import (
	"github.com/acadly/paperpay/internal/paper/domain"
)

// ListPapersQuery represents the query to list papers
type ListPapersQuery struct {
	Limit     int
	Offset    int
	TeacherID uint
	OrgID     uint
}

// ListPapersHandler handles list papers query
type ListPapersHandler struct {
	repo domain.PaperRepository
}

// NewListPapersHandler creates a new list papers handler
func NewListPapersHandler(repo domain.PaperRepository) *ListPapersHandler {
	return &ListPapersHandler{repo: repo}
}

// Handle executes the list papers query
func (h *ListPapersHandler) Handle(q ListPapersQuery) ([]domain.Paper, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if q.TeacherID != 0 {
		return h.repo.FindByTeacher(q.TeacherID, q.Limit, q.Offset)
	}
	if q.OrgID != 0 {
		return h.repo.FindByOrg(q.OrgID, q.Limit, q.Offset)
	}
	return h.repo.FindAll(q.Limit, q.Offset)
}
