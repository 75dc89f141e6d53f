package postgres

import (
	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

// applyComplaintFilters applies the optional listing filters to a complaint
// query. Nil fields act as wildcards.
func applyComplaintFilters(query *gorm.DB, filters repositories.ComplaintFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("complaints.status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("complaints.category = ?", *filters.Category)
	}
	if filters.OwnerID != nil {
		query = query.Where("complaints.user_id = ?", *filters.OwnerID)
	}
	if filters.DateFrom != nil {
		query = query.Where("complaints.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("complaints.created_at <= ?", *filters.DateTo)
	}
	return query
}
