package command

import (
	"fmt"

	"github.com/acadly/paperpay/internal/student/domain"
	"github.com/acadly/paperpay/pkg/auth"
)

// LoginStudentCommand represents the command to log an account in
type LoginStudentCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token   string          `json:"token"`
	Student *domain.Student `json:"student"`
}

// LoginStudentHandler handles login command
type LoginStudentHandler struct {
	repo domain.StudentRepository
}

// NewLoginStudentHandler creates a new login student handler
func NewLoginStudentHandler(repo domain.StudentRepository) *LoginStudentHandler {
	return &LoginStudentHandler{repo: repo}
}

// Handle executes the login command
func (h *LoginStudentHandler) Handle(cmd LoginStudentCommand) (*LoginResponse, error) {
	// Validation
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	// Find account by email
	student, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// Check if account is active
	if !student.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// Verify password
	if !auth.CheckPassword(student.Password, cmd.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	// Generate JWT token
	token, err := auth.GenerateToken(student.ID, student.Email, student.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:   token,
		Student: student,
	}, nil
}
