package services

import (
	"fmt"
	"testing"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
)

func filterFixture() []*AdminComplaintResponse {
	rows := []struct {
		status   models.ComplaintStatus
		category models.ComplaintCategory
	}{
		{models.StatusPending, models.CategoryTechnical},
		{models.StatusPending, models.CategoryFacility},
		{models.StatusUnderReview, models.CategoryTechnical},
		{models.StatusResolved, models.CategoryAcademic},
		{models.StatusResolved, models.CategoryTechnical},
	}

	out := make([]*AdminComplaintResponse, 0, len(rows))
	for i, r := range rows {
		out = append(out, &AdminComplaintResponse{
			Complaint: &models.Complaint{
				ID:          uint(i + 1),
				Title:       fmt.Sprintf("Complaint %d", i+1),
				Status:      r.status,
				Category:    r.category,
				Description: "A sufficiently long description for the fixture row.",
			},
		})
	}
	return out
}

func complaintIDs(complaints []*AdminComplaintResponse) []uint {
	ids := make([]uint, len(complaints))
	for i, c := range complaints {
		ids[i] = c.ID
	}
	return ids
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterComplaints(t *testing.T) {
	fixture := filterFixture()

	tests := []struct {
		name     string
		status   string
		category string
		wantIDs  []uint
	}{
		{"both wildcards", FilterAll, FilterAll, []uint{1, 2, 3, 4, 5}},
		{"both empty", "", "", []uint{1, 2, 3, 4, 5}},
		{"status only", string(models.StatusPending), FilterAll, []uint{1, 2}},
		{"category only", FilterAll, string(models.CategoryTechnical), []uint{1, 3, 5}},
		{"status and category combined", string(models.StatusResolved), string(models.CategoryTechnical), []uint{5}},
		{"no matches", string(models.StatusUnderReview), string(models.CategoryFacility), []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterComplaints(fixture, tt.status, tt.category)
			if !sameIDs(complaintIDs(got), tt.wantIDs) {
				t.Errorf("got %v, want %v", complaintIDs(got), tt.wantIDs)
			}
		})
	}
}

func TestFilterComplaints_Idempotent(t *testing.T) {
	fixture := filterFixture()

	once := FilterComplaints(fixture, string(models.StatusPending), string(models.CategoryTechnical))
	twice := FilterComplaints(once, string(models.StatusPending), string(models.CategoryTechnical))

	if !sameIDs(complaintIDs(once), complaintIDs(twice)) {
		t.Errorf("second application changed the result: %v vs %v", complaintIDs(once), complaintIDs(twice))
	}
}

func TestFilterComplaints_Commutative(t *testing.T) {
	fixture := filterFixture()

	statusFirst := FilterComplaints(
		FilterComplaints(fixture, string(models.StatusResolved), FilterAll),
		FilterAll, string(models.CategoryTechnical),
	)
	categoryFirst := FilterComplaints(
		FilterComplaints(fixture, FilterAll, string(models.CategoryTechnical)),
		string(models.StatusResolved), FilterAll,
	)

	if !sameIDs(complaintIDs(statusFirst), complaintIDs(categoryFirst)) {
		t.Errorf("filter order changed the result: %v vs %v", complaintIDs(statusFirst), complaintIDs(categoryFirst))
	}
}

func TestFilterComplaints_DoesNotMutateInput(t *testing.T) {
	fixture := filterFixture()
	before := complaintIDs(fixture)

	FilterComplaints(fixture, string(models.StatusPending), FilterAll)

	if !sameIDs(before, complaintIDs(fixture)) {
		t.Error("input slice was mutated")
	}
}
