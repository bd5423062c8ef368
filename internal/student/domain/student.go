package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role types
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Student represents an account on the platform. Teachers and admins are
// stored in the same table, distinguished by role.
type Student struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	FullName  string         `json:"full_name" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'student'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Student) TableName() string {
	return "students"
}

// IsAdmin checks if the account has the admin role
func (s *Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// StudentRepository defines the contract for account data access
type StudentRepository interface {
	Create(student *Student) error
	FindByID(id uint) (*Student, error)
	FindByEmail(email string) (*Student, error)
	FindAll(limit, offset int) ([]Student, error)
	Update(student *Student) error
	Delete(id uint) error
	Count() (int64, error)
}
