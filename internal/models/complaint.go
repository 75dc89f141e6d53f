package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	StatusPending     ComplaintStatus = "Pending"
	StatusUnderReview ComplaintStatus = "Under Review"
	StatusResolved    ComplaintStatus = "Resolved"
)

type ComplaintCategory string

const (
	CategoryTechnical ComplaintCategory = "Technical"
	CategoryAcademic  ComplaintCategory = "Academic"
	CategoryBehavior  ComplaintCategory = "Behavior"
	CategoryFacility  ComplaintCategory = "Facility"
	CategoryOther     ComplaintCategory = "Other"
)

// ComplaintStatuses lists every valid status.
var ComplaintStatuses = []ComplaintStatus{StatusPending, StatusUnderReview, StatusResolved}

// ComplaintCategories lists every valid category.
var ComplaintCategories = []ComplaintCategory{
	CategoryTechnical, CategoryAcademic, CategoryBehavior, CategoryFacility, CategoryOther,
}

// Complaint is the ticket entity. Owned by the submitting student; co-mutable
// by admins, who hold superseding write authority. The student's write window
// closes once the status leaves Pending.
type Complaint struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      string            `json:"user_id" gorm:"not null;index;size:255"`
	Title       string            `json:"title" gorm:"not null;size:200" validate:"required,complaint_title"`
	Category    ComplaintCategory `json:"category" gorm:"not null;size:20;index" validate:"required,complaint_category"`
	Description string            `json:"description" gorm:"not null;type:text" validate:"required,complaint_description"`
	Status      ComplaintStatus   `json:"status" gorm:"not null;default:Pending;size:20;index"`

	// AdminRemarks is nil until an admin attaches remarks; empty strings are
	// normalized to nil before persisting.
	AdminRemarks *string `json:"admin_remarks" gorm:"type:text"`

	// FileURL references the attachment blob; nil when no file was supplied.
	FileURL  *string        `json:"file_url" gorm:"size:500"`
	FileMeta datatypes.JSON `json:"file_meta,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Version guards against lost updates: every mutation compares and
	// increments it, so the second of two racing writers fails.
	Version int `json:"version" gorm:"not null;default:1"`

	Submitter Profile `json:"-" gorm:"foreignKey:UserID"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ComplaintStatus) bool {
	for _, v := range ComplaintStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ComplaintCategory) bool {
	for _, v := range ComplaintCategories {
		if v == c {
			return true
		}
	}
	return false
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&RoleAssignment{},
		&Complaint{},
	)
}
