package validator

import (
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

// SignUpRequest carries credentials and profile data for registration.
type SignUpRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" form:"full_name" validate:"required,min=2,max=100"`
}

// SignInRequest carries credentials for session establishment.
type SignInRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ProfileUpdateRequest updates the caller's own profile.
type ProfileUpdateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
}

// ComplaintCreateRequest is the student submission payload. The optional file
// travels alongside as a multipart part and is validated separately.
type ComplaintCreateRequest struct {
	Title       string                   `json:"title" form:"title" validate:"required,complaint_title"`
	Category    models.ComplaintCategory `json:"category" form:"category" validate:"required,complaint_category"`
	Description string                   `json:"description" form:"description" validate:"required,complaint_description"`
}

// ComplaintUpdateRequest is the student's edit payload, accepted only while
// the complaint is still Pending.
type ComplaintUpdateRequest struct {
	Title       *string                   `json:"title" validate:"omitempty,complaint_title"`
	Category    *models.ComplaintCategory `json:"category" validate:"omitempty,complaint_category"`
	Description *string                   `json:"description" validate:"omitempty,complaint_description"`
	Version     int                       `json:"version" validate:"required,min=1"`
}

// TriageRequest is the admin status/remarks mutation.
type TriageRequest struct {
	Status  models.ComplaintStatus `json:"status" validate:"required,complaint_status"`
	Remarks *string                `json:"remarks" validate:"omitempty,max=2000"`
	Version int                    `json:"version" validate:"required,min=1"`
}

// AttachmentUpload describes a candidate attachment before any network
// operation happens.
type AttachmentUpload struct {
	Filename    string
	Size        int64
	ContentType string
	// Head holds the first bytes of the file for content sniffing.
	Head []byte
}
