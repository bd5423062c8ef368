package command

import (
	"fmt"
	"time"

	"github.com/acadly/paperpay/internal/student/domain"
	"github.com/acadly/paperpay/pkg/auth"
)

// RegisterStudentCommand represents the command to register a new account
type RegisterStudentCommand struct {
	Email    string
	Password string
	FullName string
	Role     string // Optional, defaults to "student"
}

// RegisterStudentHandler handles account registration command
type RegisterStudentHandler struct {
	repo domain.StudentRepository
}

// NewRegisterStudentHandler creates a new register student handler
func NewRegisterStudentHandler(repo domain.StudentRepository) *RegisterStudentHandler {
	return &RegisterStudentHandler{repo: repo}
}

// Handle executes the register student command
func (h *RegisterStudentHandler) Handle(cmd RegisterStudentCommand) (*domain.Student, error) {
	// Validation
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if cmd.FullName == "" {
		return nil, fmt.Errorf("full name is required")
	}

	// Check if account already exists
	if existing, _ := h.repo.FindByEmail(cmd.Email); existing != nil {
		return nil, fmt.Errorf("email already exists")
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Set default role if not provided
	role := cmd.Role
	if role == "" {
		role = domain.RoleStudent
	}
	// Validate role
	if role != domain.RoleStudent && role != domain.RoleTeacher && role != domain.RoleAdmin {
		return nil, fmt.Errorf("invalid role")
	}

	student := &domain.Student{
		Email:     cmd.Email,
		Password:  hashedPassword,
		FullName:  cmd.FullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return student, nil
}
