package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/events"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

func TestAdminService_List(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	env.seedUser(t, "student-2", "student2@school.test", "Student Two", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()

	env.submitComplaint(t, complaints, "student-1", "Complaint from student one")
	env.submitComplaint(t, complaints, "student-2", "Complaint from student two")

	list, err := admin.List(context.Background(), repositories.ComplaintFilters{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if list.Total != 2 {
		t.Fatalf("expected every complaint system-wide, got %d", list.Total)
	}

	byTitle := make(map[string]*AdminComplaintResponse)
	for _, row := range list.Complaints {
		byTitle[row.Title] = row
	}
	row := byTitle["Complaint from student one"]
	if row == nil {
		t.Fatal("student one's complaint missing from the admin list")
	}
	if row.SubmitterName != "Student One" || row.SubmitterEmail != "student1@school.test" {
		t.Errorf("submitter identity not joined: %q / %q", row.SubmitterName, row.SubmitterEmail)
	}
}

func TestAdminService_ListMissingProfilePlaceholders(t *testing.T) {
	env := newServiceTestEnv(t)
	admin := env.adminService()

	// Row written without any profile provisioned for the owner.
	orphan := &models.Complaint{
		UserID:      "ghost-user",
		Title:       "Complaint from a deprovisioned user",
		Category:    models.CategoryOther,
		Description: "The submitting account was removed after this complaint was filed.",
		Status:      models.StatusPending,
		Version:     1,
	}
	if err := env.repo.Complaint().Create(context.Background(), nil, orphan); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	list, err := admin.List(context.Background(), repositories.ComplaintFilters{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected the orphaned complaint, got %d rows", list.Total)
	}
	if list.Complaints[0].SubmitterName != "Unknown" || list.Complaints[0].SubmitterEmail != "" {
		t.Errorf("expected placeholder identity, got %q / %q",
			list.Complaints[0].SubmitterName, list.Complaints[0].SubmitterEmail)
	}
}

func TestAdminService_ListFilters(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	first := env.submitComplaint(t, complaints, "student-1", "Technical complaint number one")
	if _, err := complaints.Create(ctx, &CreateComplaintRequest{
		Title:       "Facility complaint number two",
		Category:    models.CategoryFacility,
		Description: "The radiators in the west wing have been cold all week long.",
	}, "student-1", nil, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := admin.Triage(ctx, first.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Version: first.Version,
	}, "admin-1"); err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	resolved := models.StatusResolved
	list, err := admin.List(ctx, repositories.ComplaintFilters{Status: &resolved})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Complaints[0].ID != first.ID {
		t.Errorf("status filter should match only the resolved complaint, got %d rows", list.Total)
	}

	facility := models.CategoryFacility
	list, err = admin.List(ctx, repositories.ComplaintFilters{Category: &facility})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 1 || list.Complaints[0].Category != models.CategoryFacility {
		t.Errorf("category filter should match only the facility complaint, got %d rows", list.Total)
	}
}

func TestAdminService_Triage(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Complaint heading into triage")

	remarks := "  Facilities has been notified.  "
	resp, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusUnderReview,
		Remarks: &remarks,
		Version: created.Version,
	}, "admin-1")
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	if resp.Status != models.StatusUnderReview {
		t.Errorf("status not applied, got %q", resp.Status)
	}
	if resp.AdminRemarks == nil || *resp.AdminRemarks != "Facilities has been notified." {
		t.Errorf("remarks should be stored trimmed, got %v", resp.AdminRemarks)
	}
	if resp.Version != created.Version+1 {
		t.Errorf("version should increment, got %d", resp.Version)
	}
	if resp.SubmitterName != "Student One" {
		t.Errorf("submitter identity missing: %q", resp.SubmitterName)
	}
	if !hasEventType(env.eventTypes(), events.EventComplaintStatusChanged) {
		t.Error("complaint.status_changed event was not published")
	}
}

func TestAdminService_TriageRefreshesUpdatedAt(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Complaint with a tracked timeline")

	time.Sleep(10 * time.Millisecond)

	resp, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusUnderReview,
		Version: created.Version,
	}, "admin-1")
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	if !resp.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("triage must advance updated_at, got %v (was %v)", resp.UpdatedAt, created.UpdatedAt)
	}
	if resp.UpdatedAt.Before(resp.CreatedAt) {
		t.Errorf("updated_at %v may not precede created_at %v", resp.UpdatedAt, resp.CreatedAt)
	}
}

func TestAdminService_TriageWhitespaceRemarksStoredAsNull(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Complaint with empty remarks")

	remarks := "   "
	resp, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Remarks: &remarks,
		Version: created.Version,
	}, "admin-1")
	if err != nil {
		t.Fatalf("triage failed: %v", err)
	}
	if resp.AdminRemarks != nil {
		t.Errorf("whitespace-only remarks must normalize to nil, got %q", *resp.AdminRemarks)
	}
}

func TestAdminService_TriageReopensResolved(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Complaint that gets reopened")

	if _, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Version: created.Version,
	}, "admin-1"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	resp, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusPending,
		Version: created.Version + 1,
	}, "admin-1")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if resp.Status != models.StatusPending {
		t.Errorf("resolved complaint should reopen, got %q", resp.Status)
	}
}

func TestAdminService_TriageStaleVersion(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Complaint with racing admins")

	if _, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusUnderReview,
		Version: created.Version,
	}, "admin-1"); err != nil {
		t.Fatalf("first triage failed: %v", err)
	}

	_, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Version: created.Version, // stale
	}, "admin-2")
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected version conflict for the second admin, got %v", err)
	}
}

func TestAdminService_TriageMissingComplaint(t *testing.T) {
	env := newServiceTestEnv(t)
	admin := env.adminService()

	_, err := admin.Triage(context.Background(), 4242, &TriageRequest{
		Status:  models.StatusResolved,
		Version: 1,
	}, "admin-1")
	if !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestAdminService_TriageRejectsUnknownStatus(t *testing.T) {
	env := newServiceTestEnv(t)
	admin := env.adminService()

	_, err := admin.Triage(context.Background(), 1, &TriageRequest{
		Status:  "Escalated",
		Version: 1,
	}, "admin-1")
	if err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}
