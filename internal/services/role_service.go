package services

import (
	"context"
	"log/slog"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

type roleService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewRoleService(repo repositories.Repository, logger *slog.Logger) RoleService {
	return &roleService{
		repo:   repo,
		logger: logger,
	}
}

// IsAdmin consults the role assignment table alone. A lookup failure is
// logged and resolves to false so an outage can never widen access.
func (s *roleService) IsAdmin(ctx context.Context, userID string) bool {
	isAdmin, err := s.repo.Role().HasRole(ctx, nil, userID, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Admin check failed, denying admin access", "user_id", userID, "error", err)
		return false
	}
	return isAdmin
}

func (s *roleService) Resolve(ctx context.Context, userID string) models.UserRole {
	if s.IsAdmin(ctx, userID) {
		return models.RoleAdmin
	}
	return models.RoleStudent
}
