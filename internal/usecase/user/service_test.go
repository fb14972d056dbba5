package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

var testNow = time.Date(2021, time.March, 15, 2, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MockUserRepository, *MockCategoryRepository) {
	userRepo := new(MockUserRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := NewService(userRepo, categoryRepo, clock.Fixed{T: testNow}, bcrypt.MinCost)
	return svc, userRepo, categoryRepo
}

func TestRegister_HashesPasswordAndSeedsCategory(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, categoryRepo := newTestService()

	userRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		if u.Email != "new@example.com" || u.TimeZoneID != "Australia/Melbourne" {
			return false
		}
		// Plaintext must never be stored.
		if u.PasswordHash == "hunter2secret" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2secret")) == nil
	})).Return(nil)
	categoryRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Other" && c.DateAdded.Equal(testNow)
	})).Return(nil)

	u, err := svc.Register(ctx, RegisterInput{
		Email:      "new@example.com",
		Password:   "hunter2secret",
		Name:       "Ada",
		Surname:    "Lovelace",
		TimeZoneID: "Australia/Melbourne",
	})

	assert.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, testNow, u.CreatedAt)
	userRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService()

	existing := &domain.User{ID: uuid.New(), Email: "taken@example.com"}
	userRepo.On("GetByEmail", ctx, "taken@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "longenough"})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	userRepo.AssertNotCalled(t, "Create")
}

func TestRegister_ShortPassword(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "short"})

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "GetByEmail")
}

func TestAuthenticate_Success(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := &domain.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: string(hash)}
	userRepo.On("GetByEmail", ctx, "a@example.com").Return(stored, nil)

	u, err := svc.Authenticate(ctx, "a@example.com", "correct-horse")

	assert.NoError(t, err)
	assert.Equal(t, stored.ID, u.ID)
}

func TestAuthenticate_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newTestService()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := &domain.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: string(hash)}
	userRepo.On("GetByEmail", ctx, "a@example.com").Return(stored, nil)
	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

	_, wrongPassword := svc.Authenticate(ctx, "a@example.com", "battery-staple")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "battery-staple")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
}
