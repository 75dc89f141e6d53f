package services

// FilterAll is the wildcard value accepted for both filter dimensions.
const FilterAll = "all"

// FilterComplaints narrows a complaint list by status and category. Either
// dimension accepts "all" (or empty) as a wildcard; the two predicates are
// AND-combined. The function is pure: it never mutates the input slice, and
// applying the same filter twice yields the same result as applying it once.
func FilterComplaints(complaints []*AdminComplaintResponse, status, category string) []*AdminComplaintResponse {
	statusAll := status == "" || status == FilterAll
	categoryAll := category == "" || category == FilterAll

	if statusAll && categoryAll {
		out := make([]*AdminComplaintResponse, len(complaints))
		copy(out, complaints)
		return out
	}

	out := make([]*AdminComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		if !statusAll && string(c.Status) != status {
			continue
		}
		if !categoryAll && string(c.Category) != category {
			continue
		}
		out = append(out, c)
	}
	return out
}
