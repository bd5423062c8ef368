package query

import (
	"fmt"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// ListOrgStudentsQuery lists the active students of an organization
type ListOrgStudentsQuery struct {
	OrgID uint
}

// OrgStudent is the roster entry exposed to other services
type OrgStudent struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// ListOrgStudentsHandler handles the roster query
type ListOrgStudentsHandler struct {
	memberships domain.MembershipRepository
}

// NewListOrgStudentsHandler creates a new list org students handler
func NewListOrgStudentsHandler(memberships domain.MembershipRepository) *ListOrgStudentsHandler {
	return &ListOrgStudentsHandler{memberships: memberships}
}

// Handle returns the active roster of the organization
func (h *ListOrgStudentsHandler) Handle(q ListOrgStudentsQuery) ([]OrgStudent, error) {
	if q.OrgID == 0 {
		return nil, fmt.Errorf("invalid org id")
	}

	memberships, err := h.memberships.FindActiveByOrg(q.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	students := make([]OrgStudent, 0, len(memberships))
	for _, m := range memberships {
		students = append(students, OrgStudent{
			ID:    m.StudentID,
			Email: m.StudentEmail,
		})
	}
	return students, nil
}
