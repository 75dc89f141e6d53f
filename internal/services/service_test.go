package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/events"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories/postgres"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/validator"
)

// fakeAttachmentStore stands in for the OSS bucket. It records uploads and
// deletes so tests can assert on the blob lifecycle.
type fakeAttachmentStore struct {
	mu         sync.Mutex
	uploads    []repositories.StoredObject
	deleted    []string
	failUpload bool
}

func (f *fakeAttachmentStore) Upload(ctx context.Context, ownerID, filename, contentType string, size int64, body io.Reader) (*repositories.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return nil, errors.New("bucket unreachable")
	}

	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}

	obj := repositories.StoredObject{
		Key:         fmt.Sprintf("complaints/%s/%s", ownerID, filename),
		URL:         fmt.Sprintf("https://attachments.test/complaints/%s/%s", ownerID, filename),
		Size:        size,
		ContentType: contentType,
	}
	f.uploads = append(f.uploads, obj)
	return &obj, nil
}

func (f *fakeAttachmentStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeAttachmentStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://attachments.test/signed/" + key, nil
}

// fakeIdentityProvider stands in for Casdoor. Tokens are issued as
// "token-<user id>" so tests can authenticate without a real provider.
type fakeIdentityProvider struct {
	mu        sync.Mutex
	users     map[string]*repositories.Identity // keyed by email
	passwords map[string]string
	nextID    int
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{
		users:     make(map[string]*repositories.Identity),
		passwords: make(map[string]string),
	}
}

func (f *fakeIdentityProvider) SignUp(ctx context.Context, email, password, fullName string) (*repositories.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[email]; ok {
		return nil, repositories.ErrEmailTaken
	}

	f.nextID++
	identity := &repositories.Identity{
		ID:       fmt.Sprintf("user-%d", f.nextID),
		Email:    email,
		FullName: fullName,
	}
	f.users[email] = identity
	f.passwords[email] = password
	return identity, nil
}

func (f *fakeIdentityProvider) SignIn(ctx context.Context, email, password string) (*repositories.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	identity, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, repositories.ErrInvalidCredentials
	}

	return &repositories.Session{
		Identity:     *identity,
		AccessToken:  "token-" + identity.ID,
		RefreshToken: "refresh-" + identity.ID,
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeIdentityProvider) ParseToken(token string) (*repositories.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, identity := range f.users {
		if token == "token-"+identity.ID {
			return identity, nil
		}
	}
	return nil, errors.New("unknown token")
}

func (f *fakeIdentityProvider) GetByID(ctx context.Context, id string) (*repositories.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, identity := range f.users {
		if identity.ID == id {
			return identity, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeIdentityProvider) GetByEmail(ctx context.Context, email string) (*repositories.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if identity, ok := f.users[email]; ok {
		return identity, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeIdentityProvider) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for email, identity := range f.users {
		if identity.ID == id {
			delete(f.users, email)
			delete(f.passwords, email)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// serviceTestEnv wires real repositories over an in-memory database with the
// external gateways replaced by fakes.
type serviceTestEnv struct {
	db          *gorm.DB
	repo        repositories.Repository
	attachments *fakeAttachmentStore
	identities  *fakeIdentityProvider
	publisher   *events.MockEventPublisher
	validator   *validator.Validator
	logger      *slog.Logger
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	attachments := &fakeAttachmentStore{}
	identities := newFakeIdentityProvider()

	repo, err := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:         db,
		Attachment: attachments,
		Identity:   identities,
	})
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceTestEnv{
		db:          db,
		repo:        repo,
		attachments: attachments,
		identities:  identities,
		publisher:   events.NewMockEventPublisher(logger),
		validator:   validator.New(),
		logger:      logger,
	}
}

// seedUser provisions a profile and role assignment directly, bypassing the
// identity provider.
func (env *serviceTestEnv) seedUser(t *testing.T, id, email, fullName string, role models.UserRole) {
	t.Helper()

	ctx := context.Background()
	profile := &models.Profile{ID: id, FullName: fullName, Email: email}
	if err := env.repo.Profile().Create(ctx, nil, profile); err != nil {
		t.Fatalf("failed to seed profile %s: %v", id, err)
	}
	if err := env.repo.Role().Assign(ctx, nil, id, role); err != nil {
		t.Fatalf("failed to seed role for %s: %v", id, err)
	}
}

func (env *serviceTestEnv) complaintService() ComplaintService {
	return NewComplaintService(env.repo, env.db, env.logger, env.validator, env.publisher)
}

func (env *serviceTestEnv) adminService() AdminService {
	return NewAdminService(env.repo, env.db, env.logger, env.validator, env.publisher)
}

func (env *serviceTestEnv) authService(bootstrapAdminEmail string) AuthService {
	return NewAuthService(env.repo, env.db, env.logger, env.validator, env.publisher, bootstrapAdminEmail)
}

// submitComplaint creates a complaint through the service and fails the test
// on error.
func (env *serviceTestEnv) submitComplaint(t *testing.T, svc ComplaintService, ownerID, title string) *ComplaintResponse {
	t.Helper()

	resp, err := svc.Create(context.Background(), &CreateComplaintRequest{
		Title:       title,
		Category:    models.CategoryTechnical,
		Description: "A sufficiently detailed description of the problem at hand.",
	}, ownerID, nil, nil)
	if err != nil {
		t.Fatalf("failed to create complaint: %v", err)
	}
	return resp
}

func (env *serviceTestEnv) eventTypes() []string {
	published := env.publisher.GetPublishedEvents()
	types := make([]string, len(published))
	for i, e := range published {
		types[i] = e.Type
	}
	return types
}

func hasEventType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
