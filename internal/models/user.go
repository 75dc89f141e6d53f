package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Profile mirrors the identity managed by the auth gateway. One row per
// identity, created by provisioning at sign-up and never by direct user
// action. The ID is the Casdoor user id.
type Profile struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	FullName string `json:"full_name" gorm:"not null;size:100"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Roles      []RoleAssignment `json:"-" gorm:"foreignKey:UserID"`
	Complaints []Complaint      `json:"-" gorm:"foreignKey:UserID"`
}

// RoleAssignment records role membership. At most one row per (user, role).
// Rows are written only by provisioning; runtime authorization reads them.
type RoleAssignment struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	UserID string   `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_role;constraint:OnDelete:CASCADE"`
	Role   UserRole `json:"role" gorm:"not null;size:20;uniqueIndex:idx_user_role"`

	CreatedAt time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (RoleAssignment) TableName() string {
	return "role_assignments"
}
