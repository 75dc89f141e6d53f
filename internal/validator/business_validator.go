package validator

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

// MaxAttachmentSize caps uploads at 10MB, enforced before any network call.
const MaxAttachmentSize = 10 << 20

// allowedAttachmentTypes maps permitted file extensions to the content types
// they are allowed to declare. Images, PDF and Word documents only.
var allowedAttachmentTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// BusinessValidator handles business rule validation for complaints and
// attachments.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a validator with all custom rules registered.
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags on any request type.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateComplaintCreate validates the student submission payload.
func (bv *BusinessValidator) ValidateComplaintCreate(req *ComplaintCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateComplaintUpdate validates the student's edit payload.
func (bv *BusinessValidator) ValidateComplaintUpdate(req *ComplaintUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateTriage validates the admin status/remarks mutation.
func (bv *BusinessValidator) ValidateTriage(req *TriageRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateAttachment checks size and type constraints on a candidate upload.
// It runs entirely in memory so a rejected file never reaches the store.
func (bv *BusinessValidator) ValidateAttachment(upload *AttachmentUpload) ValidationErrors {
	var errors ValidationErrors

	if upload.Size > MaxAttachmentSize {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "file too large",
			Value:   upload.Size,
			Rule:    "max_size",
		})
		return errors
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	declared, ok := allowedAttachmentTypes[ext]
	if !ok {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "file type not allowed",
			Value:   ext,
			Rule:    "mime_allowlist",
		})
		return errors
	}

	// Sniff the actual content rather than trusting the client header.
	// Word documents sniff as zip/octet-stream, which the allow-list covers.
	if len(upload.Head) > 0 {
		sniffed := http.DetectContentType(upload.Head)
		if !contentTypeAllowed(sniffed, declared) {
			errors = append(errors, ValidationError{
				Field:   "file",
				Message: "file type not allowed",
				Value:   sniffed,
				Rule:    "mime_allowlist",
			})
		}
	}

	return errors
}

func contentTypeAllowed(sniffed string, declared []string) bool {
	base := strings.TrimSpace(strings.Split(sniffed, ";")[0])
	if base == "application/octet-stream" {
		// DetectContentType's fallback; the extension check already passed.
		return true
	}
	for _, ct := range declared {
		if base == ct {
			return true
		}
	}
	return false
}

// registerBusinessRules registers custom complaint field validators.
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (5-200 characters)
	bv.validate.RegisterValidation("complaint_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 5 && len(title) <= 200
	})

	// Description validation (20-2000 characters)
	bv.validate.RegisterValidation("complaint_description", func(fl validator.FieldLevel) bool {
		desc := strings.TrimSpace(fl.Field().String())
		return len(desc) >= 20 && len(desc) <= 2000
	})

	// Category enum validation
	bv.validate.RegisterValidation("complaint_category", func(fl validator.FieldLevel) bool {
		return models.ValidCategory(models.ComplaintCategory(fl.Field().String()))
	})

	// Status enum validation
	bv.validate.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(models.ComplaintStatus(fl.Field().String()))
	})
}
