package services

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	roles     RoleService
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		roles:     NewRoleService(repo, logger),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &ProfileResponse{
		Profile: profile,
		Role:    s.roles.Resolve(ctx, userID),
	}, nil
}

// Update changes the caller's own display name. Email and role are not
// self-serviceable.
func (s *profileService) Update(ctx context.Context, userID string, req *ProfileUpdateRequest) (*ProfileResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}

	if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	s.logger.Info("Profile updated", "user_id", userID)

	return s.Get(ctx, userID)
}
