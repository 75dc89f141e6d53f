package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/cache"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

type RolePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRolePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RoleRepository {
	return &RolePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *RolePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Assign upserts a (user, role) pair. The unique index makes the operation
// idempotent.
func (r *RolePostgreSQL) Assign(ctx context.Context, tx *gorm.DB, userID string, role models.UserRole) error {
	db := r.getDB(tx)

	assignment := models.RoleAssignment{UserID: userID, Role: role}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignment).Error
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, r.cacheManager.Role, fmt.Sprintf("user:%s:*", userID))

	return nil
}

// HasRole reports whether the assignment row exists, with caching. Errors
// propagate so the caller can decide how to degrade.
func (r *RolePostgreSQL) HasRole(ctx context.Context, tx *gorm.DB, userID string, role models.UserRole) (bool, error) {
	cacheKey := fmt.Sprintf("user:%s:%s", userID, role)
	var has bool

	err := r.cacheManager.Role.CacheOrExecute(ctx, cacheKey, &has, cache.RoleCacheConfig.TTL, func() (interface{}, error) {
		db := r.getDB(tx)
		var count int64
		err := db.WithContext(ctx).
			Model(&models.RoleAssignment{}).
			Where("user_id = ? AND role = ?", userID, role).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check role: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return has, nil
}

func (r *RolePostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.RoleAssignment, error) {
	db := r.getDB(tx)

	var assignments []models.RoleAssignment
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return assignments, nil
}
