package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acadly/paperpay/internal/paper/domain"
)

type GormPaperRepository struct {
	db *gorm.DB
}

func NewGormPaperRepository(db *gorm.DB) *GormPaperRepository {
	return &GormPaperRepository{db: db}
}

func (r *GormPaperRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Paper{}, &domain.Membership{})
}

func (r *GormPaperRepository) Create(paper *domain.Paper) error {
	return r.db.Create(paper).Error
}

func (r *GormPaperRepository) FindByID(id uint) (*domain.Paper, error) {
	var paper domain.Paper
	err := r.db.First(&paper, id).Error
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *GormPaperRepository) FindAll(limit, offset int) ([]domain.Paper, error) {
	var papers []domain.Paper
	err := r.db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&papers).Error
	return papers, err
}

func (r *GormPaperRepository) FindByTeacher(teacherID uint, limit, offset int) ([]domain.Paper, error) {
	var papers []domain.Paper
	err := r.db.Where("teacher_id = ?", teacherID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&papers).Error
	return papers, err
}

func (r *GormPaperRepository) FindByOrg(orgID uint, limit, offset int) ([]domain.Paper, error) {
	var papers []domain.Paper
	err := r.db.Where("org_id = ?", orgID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&papers).Error
	return papers, err
}

func (r *GormPaperRepository) Update(paper *domain.Paper) error {
	return r.db.Save(paper).Error
}

func (r *GormPaperRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Paper{}, id).Error
}

func (r *GormPaperRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Paper{}).Count(&count).Error
	return count, err
}

type GormMembershipRepository struct {
	db *gorm.DB
}

func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Enroll inserts the membership or reactivates an existing one
func (r *GormMembershipRepository) Enroll(membership *domain.Membership) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "student_email", "updated_at"}),
	}).Create(membership).Error
}

func (r *GormMembershipRepository) FindActiveByOrg(orgID uint) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := r.db.Where("org_id = ? AND is_active = ?", orgID, true).Find(&memberships).Error
	return memberships, err
}

func (r *GormMembershipRepository) Deactivate(orgID, studentID uint) error {
	return r.db.Model(&domain.Membership{}).
		Where("org_id = ? AND student_id = ?", orgID, studentID).
		Update("is_active", false).Error
}
