package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
)

// CasdoorConfig holds the configuration for the Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// IdentityCasdoor fronts the Casdoor identity provider. It provisions and
// authenticates identities; role decisions live in the role store, not here.
type IdentityCasdoor struct {
	client *casdoorsdk.Client
	redis  *redis.Client
	config CasdoorConfig

	// oauthConfig drives the resource-owner password grant for sign-in.
	oauthConfig *oauth2.Config

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: strings.TrimRight(config.Endpoint, "/") + "/api/login/oauth/access_token",
		},
	}

	return &IdentityCasdoor{
		client:      client,
		redis:       redisClient,
		config:      config,
		oauthConfig: oauthConfig,
		cachePrefix: "identity:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== CACHE METHODS =====

func (i *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", i.cachePrefix, key)
}

func (i *IdentityCasdoor) getIdentityFromCache(ctx context.Context, key string) (*repositories.Identity, error) {
	if i.redis == nil {
		return nil, nil // Cache not available
	}

	data, err := i.redis.Get(ctx, i.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var identity repositories.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached identity: %w", err)
	}

	return &identity, nil
}

func (i *IdentityCasdoor) setIdentityCache(ctx context.Context, key string, identity *repositories.Identity) error {
	if i.redis == nil {
		return nil
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity for cache: %w", err)
	}

	return i.redis.Set(ctx, i.getCacheKey(key), data, i.cacheTTL).Err()
}

// ===== CONVERSION =====

func (i *IdentityCasdoor) convertCasdoorUser(casdoorUser *casdoorsdk.User) *repositories.Identity {
	if casdoorUser == nil {
		return nil
	}

	return &repositories.Identity{
		ID:       casdoorUser.Id,
		Email:    strings.ToLower(casdoorUser.Email),
		FullName: casdoorUser.DisplayName,
	}
}

// ===== PROVISIONING =====

// SignUp creates the identity at Casdoor. The caller runs the local
// provisioning trigger (profile + role assignment) after this succeeds.
func (i *IdentityCasdoor) SignUp(ctx context.Context, email, password, fullName string) (*repositories.Identity, error) {
	email = strings.ToLower(email)

	existing, err := i.client.GetUserByEmail(email)
	if err == nil && existing != nil {
		return nil, repositories.ErrEmailTaken
	}

	user := &casdoorsdk.User{
		Owner:             i.config.OrganizationName,
		Name:              email,
		Id:                uuid.NewString(),
		DisplayName:       fullName,
		Email:             email,
		Password:          password,
		CreatedTime:       time.Now().UTC().Format(time.RFC3339),
		SignupApplication: i.config.ApplicationName,
	}

	ok, err := i.client.AddUser(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity at Casdoor: %w", err)
	}
	if !ok {
		return nil, repositories.ErrEmailTaken
	}

	identity := i.convertCasdoorUser(user)
	i.setIdentityCache(ctx, fmt.Sprintf("id:%s", identity.ID), identity)
	i.setIdentityCache(ctx, fmt.Sprintf("email:%s", identity.Email), identity)

	return identity, nil
}

// ===== SESSION =====

// SignIn exchanges credentials for tokens via the password grant. Any grant
// failure is reported as an invalid-credentials mismatch; the provider does
// not distinguish further and neither do we.
func (i *IdentityCasdoor) SignIn(ctx context.Context, email, password string) (*repositories.Session, error) {
	token, err := i.oauthConfig.PasswordCredentialsToken(ctx, strings.ToLower(email), password)
	if err != nil {
		return nil, repositories.ErrInvalidCredentials
	}

	identity, err := i.ParseToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse issued token: %w", err)
	}

	return &repositories.Session{
		Identity:     *identity,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// ParseToken validates an access token against the Casdoor certificate and
// returns the identity it asserts.
func (i *IdentityCasdoor) ParseToken(token string) (*repositories.Identity, error) {
	claims, err := i.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.User.Id == "" {
		return nil, fmt.Errorf("token carries no identity id")
	}

	return &repositories.Identity{
		ID:       claims.User.Id,
		Email:    strings.ToLower(claims.User.Email),
		FullName: claims.User.DisplayName,
	}, nil
}

// ===== READS =====

func (i *IdentityCasdoor) GetByID(ctx context.Context, id string) (*repositories.Identity, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	if cached, err := i.getIdentityFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := i.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrNotFound
	}

	identity := i.convertCasdoorUser(casdoorUser)
	i.setIdentityCache(ctx, cacheKey, identity)
	i.setIdentityCache(ctx, fmt.Sprintf("email:%s", identity.Email), identity)

	return identity, nil
}

func (i *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*repositories.Identity, error) {
	email = strings.ToLower(email)

	cacheKey := fmt.Sprintf("email:%s", email)
	if cached, err := i.getIdentityFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := i.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity by email from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, repositories.ErrNotFound
	}

	identity := i.convertCasdoorUser(casdoorUser)
	i.setIdentityCache(ctx, cacheKey, identity)
	i.setIdentityCache(ctx, fmt.Sprintf("id:%s", identity.ID), identity)

	return identity, nil
}

// Delete removes the identity at Casdoor and drops its cache entries.
func (i *IdentityCasdoor) Delete(ctx context.Context, id string) error {
	casdoorUser, err := i.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get identity for deletion: %w", err)
	}
	if casdoorUser == nil {
		return repositories.ErrNotFound
	}

	ok, err := i.client.DeleteUser(casdoorUser)
	if err != nil {
		return fmt.Errorf("failed to delete identity at Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("identity deletion rejected by Casdoor")
	}

	if i.redis != nil {
		i.redis.Del(ctx,
			i.getCacheKey(fmt.Sprintf("id:%s", id)),
			i.getCacheKey(fmt.Sprintf("email:%s", strings.ToLower(casdoorUser.Email))))
	}

	return nil
}
