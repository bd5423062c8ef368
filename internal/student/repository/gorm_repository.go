package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/acadly/paperpay/internal/student/domain"
)

// GormStudentRepository implements StudentRepository interface using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GORM student repository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// Create inserts a new account into the database
func (r *GormStudentRepository) Create(student *domain.Student) error {
	if err := r.db.Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// FindByID retrieves an account by ID
func (r *GormStudentRepository) FindByID(id uint) (*domain.Student, error) {
	var student domain.Student
	if err := r.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("student not found")
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}

// FindByEmail retrieves an account by email
func (r *GormStudentRepository) FindByEmail(email string) (*domain.Student, error) {
	var student domain.Student
	if err := r.db.Where("email = ?", email).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("student not found")
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}

// FindAll retrieves all accounts with pagination
func (r *GormStudentRepository) FindAll(limit, offset int) ([]domain.Student, error) {
	var students []domain.Student
	query := r.db.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to find students: %w", err)
	}
	return students, nil
}

// Update updates an account's information
func (r *GormStudentRepository) Update(student *domain.Student) error {
	if err := r.db.Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// Delete soft deletes an account from the database
func (r *GormStudentRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Student{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("student not found")
	}
	return nil
}

// Count returns the total number of accounts
func (r *GormStudentRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Student{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}
