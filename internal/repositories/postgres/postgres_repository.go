package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/cache"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories/casdoor"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories/oss"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	complaint  repositories.ComplaintRepository
	profile    repositories.ProfileRepository
	role       repositories.RoleRepository
	identity   repositories.IdentityRepository
	attachment repositories.AttachmentRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
	StorageConfig oss.StorageConfig

	// Attachment overrides the OSS-backed store when set (tests inject a
	// fake here instead of pointing at a real bucket).
	Attachment repositories.AttachmentRepository

	// Identity overrides the Casdoor-backed provider when set.
	Identity repositories.IdentityRepository
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) (repositories.Repository, error) {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Initialize sub-repositories with caching
	repo.complaint = NewComplaintPostgreSQL(config.DB, config.RedisClient)
	repo.profile = NewProfilePostgreSQL(config.DB, config.RedisClient)
	repo.role = NewRolePostgreSQL(config.DB, config.RedisClient)

	// Identity repository uses Casdoor unless an override is injected
	if config.Identity != nil {
		repo.identity = config.Identity
	} else {
		repo.identity = casdoor.NewIdentityCasdoor(config.CasdoorConfig, config.RedisClient)
	}

	// Attachment repository uses OSS unless an override is injected
	if config.Attachment != nil {
		repo.attachment = config.Attachment
	} else {
		attachment, err := oss.NewAttachmentOSS(config.StorageConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize attachment store: %w", err)
		}
		repo.attachment = attachment
	}

	return repo, nil
}

// Complaint returns the complaint repository
func (r *PostgreSQLRepository) Complaint() repositories.ComplaintRepository {
	return r.complaint
}

// Profile returns the profile repository
func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

// Role returns the role assignment repository
func (r *PostgreSQLRepository) Role() repositories.RoleRepository {
	return r.role
}

// Identity returns the identity repository
func (r *PostgreSQLRepository) Identity() repositories.IdentityRepository {
	return r.identity
}

// Attachment returns the attachment repository
func (r *PostgreSQLRepository) Attachment() repositories.AttachmentRepository {
	return r.attachment
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance with the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Initialize sub-repositories with transaction
		txRepo.complaint = NewComplaintPostgreSQL(tx, r.redisClient)
		txRepo.profile = NewProfilePostgreSQL(tx, r.redisClient)
		txRepo.role = NewRolePostgreSQL(tx, r.redisClient)

		// Identity and attachment repositories are external, no transaction
		txRepo.identity = r.identity
		txRepo.attachment = r.attachment

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	// Check database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Check cache connection
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	// Close database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Close Redis connection
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	// Validate configuration
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	// Test database connection
	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Test Redis connection if provided
	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	// Initialize repository
	repo, err := NewPostgreSQLRepository(rm.config)
	if err != nil {
		return err
	}
	rm.repo = repo

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
