package services

import (
	"context"
	"io"
	"time"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SignUpRequest = validator.SignUpRequest
type SignInRequest = validator.SignInRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type CreateComplaintRequest = validator.ComplaintCreateRequest
type UpdateComplaintRequest = validator.ComplaintUpdateRequest
type TriageRequest = validator.TriageRequest
type AttachmentUpload = validator.AttachmentUpload

type AuthResponse struct {
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
}

type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         AuthResponse `json:"user"`
}

type ProfileResponse struct {
	*models.Profile
	Role models.UserRole `json:"role"`
}

type ComplaintResponse struct {
	*models.Complaint
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

type ComplaintListResponse struct {
	Complaints []*ComplaintResponse `json:"complaints"`
	Total      int                  `json:"total"`
}

type AdminComplaintResponse struct {
	*models.Complaint
	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email"`
}

type AdminComplaintListResponse struct {
	Complaints []*AdminComplaintResponse `json:"complaints"`
	Total      int                       `json:"total"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// SignUp registers an identity and provisions the local profile and role
	// assignment in one transaction.
	SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error)
	// SignIn exchanges credentials for a session with the resolved role.
	SignIn(ctx context.Context, req *SignInRequest) (*SessionResponse, error)
	// SignOut ends the caller's session. Always succeeds locally.
	SignOut(ctx context.Context, userID string) error
	// Authenticate validates an access token and returns the identity.
	Authenticate(ctx context.Context, token string) (*repositories.Identity, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*ProfileResponse, error)
	Update(ctx context.Context, userID string, req *ProfileUpdateRequest) (*ProfileResponse, error)
}

type RoleService interface {
	// IsAdmin reports whether the user holds an admin role assignment. A
	// resolution failure logs and resolves to false.
	IsAdmin(ctx context.Context, userID string) bool
	Resolve(ctx context.Context, userID string) models.UserRole
}

type ComplaintService interface {
	// Create validates and stores a complaint. A provided attachment is
	// validated and uploaded before the row is written; an upload failure
	// aborts the submission.
	Create(ctx context.Context, req *CreateComplaintRequest, ownerID string, upload *AttachmentUpload, body io.Reader) (*ComplaintResponse, error)
	// ListOwn returns the caller's complaints, newest first.
	ListOwn(ctx context.Context, ownerID string) (*ComplaintListResponse, error)
	// GetByID returns a complaint to its owner or to an admin. Anyone else
	// sees not-found.
	GetByID(ctx context.Context, id uint, userID string) (*ComplaintResponse, error)
	// Update edits an owned complaint while it is still Pending.
	Update(ctx context.Context, id uint, req *UpdateComplaintRequest, userID string) (*ComplaintResponse, error)
	// Delete removes an owned Pending complaint and its attachment blob.
	Delete(ctx context.Context, id uint, userID string) error
}

type AdminService interface {
	// List returns all complaints joined with submitter identity, filtered
	// and newest first.
	List(ctx context.Context, filters repositories.ComplaintFilters) (*AdminComplaintListResponse, error)
	// Triage applies a status/remarks mutation under the version guard.
	Triage(ctx context.Context, id uint, req *TriageRequest, adminID string) (*AdminComplaintResponse, error)
}

type ExportService interface {
	// ExportComplaints renders the complaint list, narrowed by status and
	// category ("all" or empty means no constraint), as an xlsx workbook.
	ExportComplaints(ctx context.Context, status, category string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Profile() ProfileService
	Role() RoleService
	Complaint() ComplaintService
	Admin() AdminService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
