package domain

import "time"

// Membership enrolls a student in an organization. The active roster is the
// audience for coupon batches when a paper is published.
type Membership struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrgID        uint      `json:"org_id" gorm:"not null;uniqueIndex:idx_memberships_org_student"`
	StudentID    uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_memberships_org_student"`
	StudentEmail string    `json:"student_email"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Membership) TableName() string {
	return "memberships"
}

// MembershipRepository defines the contract for membership data access
type MembershipRepository interface {
	Enroll(membership *Membership) error
	FindActiveByOrg(orgID uint) ([]Membership, error)
	Deactivate(orgID, studentID uint) error
}
