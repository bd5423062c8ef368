package command

import (
	"fmt"
	"time"

	"github.com/acadly/paperpay/internal/paper/domain"
)

// EnrollStudentCommand adds a student to an organization's active roster
type EnrollStudentCommand struct {
	OrgID        uint
	StudentID    uint
	StudentEmail string
}

// EnrollStudentHandler handles student enrollment
type EnrollStudentHandler struct {
	memberships domain.MembershipRepository
}

// NewEnrollStudentHandler creates a new enroll student handler
func NewEnrollStudentHandler(memberships domain.MembershipRepository) *EnrollStudentHandler {
	return &EnrollStudentHandler{memberships: memberships}
}

// Handle enrolls the student, reactivating a previous membership if one exists
func (h *EnrollStudentHandler) Handle(cmd EnrollStudentCommand) (*domain.Membership, error) {
	if cmd.OrgID == 0 || cmd.StudentID == 0 {
		return nil, fmt.Errorf("org id and student id are required")
	}

	membership := &domain.Membership{
		OrgID:        cmd.OrgID,
		StudentID:    cmd.StudentID,
		StudentEmail: cmd.StudentEmail,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.memberships.Enroll(membership); err != nil {
		return nil, fmt.Errorf("failed to enroll student: %w", err)
	}

	return membership, nil
}
