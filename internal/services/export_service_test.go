package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

func TestExportService_ExportComplaints(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	export := NewExportService(admin, env.logger)
	ctx := context.Background()

	created := env.submitComplaint(t, complaints, "student-1", "Exported complaint title")
	remarks := "Handled by facilities."
	if _, err := admin.Triage(ctx, created.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Remarks: &remarks,
		Version: created.Version,
	}, "admin-1"); err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	data, err := export.ExportComplaints(ctx, FilterAll, FilterAll)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Complaints")
	if err != nil {
		t.Fatalf("missing Complaints sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one data row, got %d rows", len(rows))
	}

	header := rows[0]
	for i, want := range exportHeaders {
		if i >= len(header) || header[i] != want {
			t.Fatalf("header column %d: got %v, want %q", i, header, want)
		}
	}

	row := rows[1]
	if row[1] != "Exported complaint title" {
		t.Errorf("title column: %q", row[1])
	}
	if row[3] != string(models.StatusResolved) {
		t.Errorf("status column: %q", row[3])
	}
	if row[4] != "Student One" || row[5] != "student1@school.test" {
		t.Errorf("submitter columns: %q / %q", row[4], row[5])
	}
	if row[7] != "Handled by facilities." {
		t.Errorf("remarks column: %q", row[7])
	}
}

func TestExportService_ExportHonoursFilters(t *testing.T) {
	env := newServiceTestEnv(t)
	env.seedUser(t, "student-1", "student1@school.test", "Student One", models.RoleStudent)
	complaints := env.complaintService()
	admin := env.adminService()
	export := NewExportService(admin, env.logger)
	ctx := context.Background()

	env.submitComplaint(t, complaints, "student-1", "Pending complaint stays out")
	resolvedOne := env.submitComplaint(t, complaints, "student-1", "Resolved complaint goes in")
	if _, err := admin.Triage(ctx, resolvedOne.ID, &TriageRequest{
		Status:  models.StatusResolved,
		Version: resolvedOne.Version,
	}, "admin-1"); err != nil {
		t.Fatalf("triage failed: %v", err)
	}

	data, err := export.ExportComplaints(ctx, string(models.StatusResolved), FilterAll)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Complaints")
	if err != nil {
		t.Fatalf("missing Complaints sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("filter should leave one data row, got %d", len(rows)-1)
	}
	if rows[1][1] != "Resolved complaint goes in" {
		t.Errorf("wrong row exported: %q", rows[1][1])
	}
}

func TestExportService_EmptyExport(t *testing.T) {
	env := newServiceTestEnv(t)
	admin := env.adminService()
	export := NewExportService(admin, env.logger)

	data, err := export.ExportComplaints(context.Background(), FilterAll, FilterAll)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Complaints")
	if err != nil {
		t.Fatalf("missing Complaints sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should carry only the header, got %d rows", len(rows))
	}
}
