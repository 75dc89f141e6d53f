package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/events"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	// bootstrapAdminEmail is the provisioning-time seed: the one address
	// whose sign-up is granted the admin role assignment.
	bootstrapAdminEmail string
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, bootstrapAdminEmail string) AuthService {
	return &authService{
		repo:                repo,
		db:                  db,
		logger:              logger,
		validator:           validator,
		publisher:           publisher,
		bootstrapAdminEmail: strings.ToLower(bootstrapAdminEmail),
	}
}

// SignUp registers the identity at the provider, then provisions the local
// profile and role assignment in one transaction. The role is decided here
// and only here: admin iff the email matches the bootstrap address.
func (s *authService) SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	s.logger.Info("Registering identity", "email", email)

	identity, err := s.repo.Identity().SignUp(ctx, email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, NewAuthError("registration failed", err)
	}

	role := models.RoleStudent
	if email == s.bootstrapAdminEmail {
		role = models.RoleAdmin
	}

	// Provisioning transaction: profile and role assignment land together
	// or not at all.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		profile := &models.Profile{
			ID:       identity.ID,
			FullName: req.FullName,
			Email:    email,
		}
		if err := txRepo.Profile().Create(ctx, nil, profile); err != nil {
			return fmt.Errorf("failed to provision profile: %w", err)
		}

		if err := txRepo.Role().Assign(ctx, nil, identity.ID, role); err != nil {
			return fmt.Errorf("failed to provision role assignment: %w", err)
		}

		return nil
	})
	if err != nil {
		// Roll back the provider identity so a retry with the same email
		// does not collide with an orphan registration. Best effort: a
		// failed rollback leaves the orphan and only the log to find it.
		if delErr := s.repo.Identity().Delete(ctx, identity.ID); delErr != nil {
			s.logger.Error("Failed to roll back identity after provisioning failure",
				"user_id", identity.ID, "email", email, "error", delErr)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.EventIdentityCreated, map[string]interface{}{
		"user_id": identity.ID,
		"email":   email,
		"role":    role,
	})

	s.logger.Info("Identity provisioned", "user_id", identity.ID, "role", role)

	return &AuthResponse{
		UserID:   identity.ID,
		Email:    email,
		FullName: req.FullName,
		Role:     role,
	}, nil
}

func (s *authService) SignIn(ctx context.Context, req *SignInRequest) (*SessionResponse, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	session, err := s.repo.Identity().SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewAuthError("sign-in failed", err)
	}

	role := s.resolveRole(ctx, session.Identity.ID)

	s.publishEvent(ctx, events.EventSessionChanged, map[string]interface{}{
		"user_id": session.Identity.ID,
		"action":  "signin",
	})

	return &SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		User: AuthResponse{
			UserID:   session.Identity.ID,
			Email:    session.Identity.Email,
			FullName: session.Identity.FullName,
			Role:     role,
		},
	}, nil
}

// SignOut always succeeds locally. The token simply ages out at the
// provider; we announce the session change so role caches drop.
func (s *authService) SignOut(ctx context.Context, userID string) error {
	s.publishEvent(ctx, events.EventSessionChanged, map[string]interface{}{
		"user_id": userID,
		"action":  "signout",
	})

	s.logger.Info("Session ended", "user_id", userID)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*repositories.Identity, error) {
	identity, err := s.repo.Identity().ParseToken(token)
	if err != nil {
		return nil, NewAuthError("invalid or expired token", err)
	}
	return identity, nil
}

// resolveRole consults the role assignment table only. Failures degrade to
// student, never to admin.
func (s *authService) resolveRole(ctx context.Context, userID string) models.UserRole {
	isAdmin, err := s.repo.Role().HasRole(ctx, nil, userID, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Role resolution failed, defaulting to student", "user_id", userID, "error", err)
		return models.RoleStudent
	}
	if isAdmin {
		return models.RoleAdmin
	}
	return models.RoleStudent
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
