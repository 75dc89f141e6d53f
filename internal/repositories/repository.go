package repositories

import "context"

// Repository aggregates all repository interfaces.
type Repository interface {
	// Complaint domain
	Complaint() ComplaintRepository

	// Local identity domain
	Profile() ProfileRepository
	Role() RoleRepository

	// Identity provider (external, read/provision only)
	Identity() IdentityRepository

	// Attachment blob store (external)
	Attachment() AttachmentRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
