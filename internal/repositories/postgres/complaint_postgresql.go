package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/cache"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

type ComplaintPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewComplaintPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ComplaintRepository {
	return &ComplaintPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (c *ComplaintPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Create inserts a new complaint row and invalidates owner caches
func (c *ComplaintPostgreSQL) Create(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(complaint).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Complaint, fmt.Sprintf("owner:%s:*", complaint.UserID))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Complaint, "list:*")

	return nil
}

func (c *ComplaintPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Complaint, error) {
	db := c.getDB(tx)

	var complaint models.Complaint
	err := db.WithContext(ctx).First(&complaint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}

	return &complaint, nil
}

// GetOwnedByID scopes the lookup by owner. A non-owner request gets the same
// not-found result as a missing row, revealing nothing about existence.
func (c *ComplaintPostgreSQL) GetOwnedByID(ctx context.Context, tx *gorm.DB, id uint, ownerID string) (*models.Complaint, error) {
	db := c.getDB(tx)

	var complaint models.Complaint
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}

	return &complaint, nil
}

func (c *ComplaintPostgreSQL) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID string) ([]*models.Complaint, error) {
	db := c.getDB(tx)

	var complaints []*models.Complaint
	err := db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}

	return complaints, nil
}

// ListAllWithSubmitter joins complaints with profiles in a single query.
// Missing profiles render placeholder identity values instead of failing.
func (c *ComplaintPostgreSQL) ListAllWithSubmitter(ctx context.Context, tx *gorm.DB, filters repositories.ComplaintFilters) ([]*repositories.ComplaintWithSubmitter, error) {
	db := c.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("complaints.*, COALESCE(profiles.full_name, 'Unknown') AS submitter_name, COALESCE(profiles.email, '') AS submitter_email").
		Joins("LEFT JOIN profiles ON profiles.id = complaints.user_id AND profiles.deleted_at IS NULL")

	query = applyComplaintFilters(query, filters)

	var rows []*repositories.ComplaintWithSubmitter
	if err := query.Order("complaints.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints with submitter: %w", err)
	}

	return rows, nil
}

// Update applies student edits under the version guard
func (c *ComplaintPostgreSQL) Update(ctx context.Context, tx *gorm.DB, complaint *models.Complaint) error {
	db := c.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND version = ?", complaint.ID, complaint.Version).
		Updates(map[string]interface{}{
			"title":       complaint.Title,
			"category":    complaint.Category,
			"description": complaint.Description,
			"version":     complaint.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.conflictOrNotFound(ctx, db, complaint.ID)
	}

	complaint.Version++
	cache.InvalidateComplaintCache(ctx, c.cacheManager, complaint.ID, complaint.UserID)

	return nil
}

// Triage applies the admin status/remarks mutation under the version guard.
// Transitions are unconstrained; a Resolved complaint may be reopened.
func (c *ComplaintPostgreSQL) Triage(ctx context.Context, tx *gorm.DB, id uint, update repositories.TriageUpdate) error {
	db := c.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND version = ?", id, update.Version).
		Updates(map[string]interface{}{
			"status":        update.Status,
			"admin_remarks": update.Remarks,
			"version":       update.Version + 1,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to triage complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.conflictOrNotFound(ctx, db, id)
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Complaint, "*")

	return nil
}

func (c *ComplaintPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)

	var complaint models.Complaint
	if err := db.WithContext(ctx).Select("id, user_id").First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to get complaint before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Complaint{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}

	cache.InvalidateComplaintCache(ctx, c.cacheManager, id, complaint.UserID)

	return nil
}

// conflictOrNotFound distinguishes a stale version from a missing row after a
// guarded update touched nothing.
func (c *ComplaintPostgreSQL) conflictOrNotFound(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Complaint{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check complaint existence: %w", err)
	}
	if count == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrVersionConflict
}
