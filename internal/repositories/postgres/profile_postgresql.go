package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/cache"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by identity id with caching
func (p *ProfilePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var profile models.Profile

	err := p.cacheManager.User.CacheOrExecute(ctx, cacheKey, &profile, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		db := p.getDB(tx)
		var dbProfile models.Profile
		err := db.WithContext(ctx).Where("id = ?", id).First(&dbProfile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (p *ProfilePostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	db := p.getDB(tx)

	var profile models.Profile
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return &profile, nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := p.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"full_name": profile.FullName,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.SafeDelete(ctx, p.cacheManager.User, fmt.Sprintf("id:%s", profile.ID))

	return nil
}
