package validator

import (
	"strings"
	"testing"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

func validCreateRequest() *ComplaintCreateRequest {
	return &ComplaintCreateRequest{
		Title:       "Broken projector in room 204",
		Category:    models.CategoryFacility,
		Description: "The projector in room 204 has been flickering for a week and died today.",
	}
}

func TestValidateComplaintCreate_TitleBounds(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"too short", "Bad", true},
		{"exactly five chars", "Wi-Fi", false},
		{"exactly two hundred chars", strings.Repeat("a", 200), false},
		{"over two hundred chars", strings.Repeat("a", 201), true},
		{"whitespace padding does not count", "  ab  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			req.Title = tt.title

			errs := bv.ValidateComplaintCreate(req)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("title %q: got errors %v, wantErr %v", tt.title, errs, tt.wantErr)
			}
		})
	}
}

func TestValidateComplaintCreate_DescriptionBounds(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{"too short", "Way too short.", true},
		{"exactly twenty chars", strings.Repeat("d", 20), false},
		{"exactly two thousand chars", strings.Repeat("d", 2000), false},
		{"over two thousand chars", strings.Repeat("d", 2001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			req.Description = tt.description

			errs := bv.ValidateComplaintCreate(req)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("description len %d: got errors %v, wantErr %v", len(tt.description), errs, tt.wantErr)
			}
		})
	}
}

func TestValidateComplaintCreate_CategoryEnum(t *testing.T) {
	bv := NewBusinessValidator()

	for _, category := range models.ComplaintCategories {
		req := validCreateRequest()
		req.Category = category
		if errs := bv.ValidateComplaintCreate(req); len(errs) > 0 {
			t.Errorf("category %q should be valid, got %v", category, errs)
		}
	}

	req := validCreateRequest()
	req.Category = "Gossip"
	errs := bv.ValidateComplaintCreate(req)
	if len(errs) == 0 {
		t.Fatal("expected error for unknown category")
	}
	if errs.First().Message != "category must be one of Technical, Academic, Behavior, Facility, Other" {
		t.Errorf("unexpected message: %q", errs.First().Message)
	}
}

func TestValidateComplaintCreate_FirstViolationReported(t *testing.T) {
	bv := NewBusinessValidator()

	req := &ComplaintCreateRequest{
		Title:       "Bad",
		Category:    "Gossip",
		Description: "short",
	}

	errs := bv.ValidateComplaintCreate(req)
	if len(errs) < 3 {
		t.Fatalf("expected all three violations, got %d", len(errs))
	}
	if errs.First().Field != "title" {
		t.Errorf("first violation should be title, got %q", errs.First().Field)
	}
	if errs.First().Message != "title must be between 5 and 200 characters" {
		t.Errorf("unexpected first message: %q", errs.First().Message)
	}
}

func TestValidateAttachment_SizeLimit(t *testing.T) {
	bv := NewBusinessValidator()

	upload := &AttachmentUpload{
		Filename:    "evidence.pdf",
		Size:        15 << 20, // 15MB
		ContentType: "application/pdf",
	}

	errs := bv.ValidateAttachment(upload)
	if len(errs) == 0 {
		t.Fatal("expected rejection for 15MB upload")
	}
	if errs.First().Message != "file too large" {
		t.Errorf("unexpected message: %q", errs.First().Message)
	}

	upload.Size = MaxAttachmentSize
	if errs := bv.ValidateAttachment(upload); len(errs) > 0 {
		t.Errorf("upload at the exact limit should pass, got %v", errs)
	}
}

func TestValidateAttachment_TypeAllowList(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name     string
		filename string
		head     []byte
		wantErr  bool
	}{
		{"png allowed", "photo.png", []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 32)), false},
		{"pdf allowed", "doc.pdf", []byte("%PDF-1.7 " + strings.Repeat(" ", 32)), false},
		{"executable rejected", "payload.exe", nil, true},
		{"script rejected", "run.sh", nil, true},
		{"png extension with html body rejected", "photo.png", []byte("<!DOCTYPE html><html><body></body></html>"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload := &AttachmentUpload{
				Filename: tt.filename,
				Size:     1024,
				Head:     tt.head,
			}

			errs := bv.ValidateAttachment(upload)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("%s: got errors %v, wantErr %v", tt.filename, errs, tt.wantErr)
			}
			if tt.wantErr && len(errs) > 0 && errs.First().Message != "file type not allowed" {
				t.Errorf("unexpected message: %q", errs.First().Message)
			}
		})
	}
}

func TestValidateTriage(t *testing.T) {
	bv := NewBusinessValidator()

	remarks := "Looked into it, contacting facilities."
	req := &TriageRequest{
		Status:  models.StatusUnderReview,
		Remarks: &remarks,
		Version: 1,
	}
	if errs := bv.ValidateTriage(req); len(errs) > 0 {
		t.Errorf("valid triage rejected: %v", errs)
	}

	req.Status = "Escalated"
	errs := bv.ValidateTriage(req)
	if len(errs) == 0 {
		t.Fatal("expected error for unknown status")
	}
	if errs.First().Message != "status must be one of Pending, Under Review, Resolved" {
		t.Errorf("unexpected message: %q", errs.First().Message)
	}
}
