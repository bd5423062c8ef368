package domain

import (
	"time"

	"gorm.io/gorm"
)

// Paper statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Paper represents an exam paper in the catalog
type Paper struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Subject     string         `json:"subject"`
	Standard    string         `json:"standard"`
	Price       int64          `json:"price" gorm:"not null;default:0"` // minor units; 0 means free
	IsPublic    bool           `json:"is_public" gorm:"default:false"`
	Status      string         `json:"status" gorm:"default:draft"`
	TeacherID   uint           `json:"teacher_id" gorm:"not null;index"`
	OrgID       uint           `json:"org_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Paper) TableName() string {
	return "papers"
}

// Purchasable reports whether students may buy or claim this paper
func (p *Paper) Purchasable() bool {
	return p.IsPublic && p.Status == StatusPublished
}

// PaperRepository defines the contract for paper data access
type PaperRepository interface {
	Create(paper *Paper) error
	FindByID(id uint) (*Paper, error)
	FindAll(limit, offset int) ([]Paper, error)
	FindByTeacher(teacherID uint, limit, offset int) ([]Paper, error)
	FindByOrg(orgID uint, limit, offset int) ([]Paper, error)
	Update(paper *Paper) error
	Delete(id uint) error
	Count() (int64, error)
}
