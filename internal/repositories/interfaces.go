package repositories

import (
	"context"
	"errors"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ComplaintFilters struct {
	Status   *models.ComplaintStatus   `json:"status"`
	Category *models.ComplaintCategory `json:"category"`
	OwnerID  *string                   `json:"owner_id"`
	DateFrom *time.Time                `json:"date_from"`
	DateTo   *time.Time                `json:"date_to"`
}

// ===== SHARED RESULT STRUCTS =====

// ComplaintWithSubmitter is a complaint row joined with the submitting
// profile's identity. Placeholder values stand in when the profile row is
// missing.
type ComplaintWithSubmitter struct {
	models.Complaint `gorm:"embedded"`

	SubmitterName  string `json:"submitter_name" gorm:"column:submitter_name"`
	SubmitterEmail string `json:"submitter_email" gorm:"column:submitter_email"`
}

// TriageUpdate carries the admin mutation applied to a complaint row.
type TriageUpdate struct {
	Status  models.ComplaintStatus
	Remarks *string
	Version int
}

// ===== REPOSITORY INTERFACES =====

type ComplaintRepository interface {
	Create(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Complaint, error)
	// GetOwnedByID returns the complaint only when owned by ownerID; a
	// non-owner lookup yields not-found, never an authorization hint.
	GetOwnedByID(ctx context.Context, tx *gorm.DB, id uint, ownerID string) (*models.Complaint, error)
	// ListByOwner returns every complaint owned by ownerID, newest first.
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID string) ([]*models.Complaint, error)
	// ListAllWithSubmitter returns every complaint system-wide joined with
	// submitter identity, newest first.
	ListAllWithSubmitter(ctx context.Context, tx *gorm.DB, filters ComplaintFilters) ([]*ComplaintWithSubmitter, error)
	// Update applies field updates guarded by the version counter; a stale
	// version returns ErrVersionConflict and leaves the row untouched.
	Update(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error
	// Triage applies the admin status/remarks mutation under the same
	// version guard.
	Triage(ctx context.Context, tx *gorm.DB, id uint, update TriageUpdate) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
}

type RoleRepository interface {
	Assign(ctx context.Context, tx *gorm.DB, userID string, role models.UserRole) error
	// HasRole reports whether a (user, role) assignment row exists.
	HasRole(ctx context.Context, tx *gorm.DB, userID string, role models.UserRole) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.RoleAssignment, error)
}

// Identity describes the principal managed by the external auth gateway.
type Identity struct {
	ID       string
	Email    string
	FullName string
}

// Session is an established identity session.
type Session struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IdentityRepository fronts the external identity provider.
type IdentityRepository interface {
	// SignUp creates an identity at the provider. Duplicate email yields
	// ErrEmailTaken.
	SignUp(ctx context.Context, email, password, fullName string) (*Identity, error)
	// SignIn exchanges credentials for a session. Mismatch yields
	// ErrInvalidCredentials.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// ParseToken validates an access token and returns the identity it
	// asserts.
	ParseToken(token string) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	// Delete removes an identity at the provider. Used to roll back a
	// registration whose local provisioning failed.
	Delete(ctx context.Context, id string) error
}

// StoredObject describes a blob persisted in the attachment store.
type StoredObject struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// AttachmentRepository fronts the blob store. Keys are namespaced by owner so
// per-student uniqueness needs no collision check.
type AttachmentRepository interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, size int64, body io.Reader) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
	// SignedURL returns a time-limited read URL for the object.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ===== SHARED ERRORS =====

var (
	// ErrNotFound is returned when a requested row does not exist (or the
	// caller is not allowed to see that it does).
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a guarded update loses the race
	// against a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrEmailTaken is returned when registering an already-known email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a sign-in mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
