// Package user handles registration and credential checks.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
)

// initialCategoryName is created for every new user so imports and the
// first manual expenses always have somewhere to land.
const initialCategoryName = "Other"

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Surname    string
	TimeZoneID string
}

// Service handles user account operations
type Service struct {
	UserRepo     domain.UserRepository
	CategoryRepo domain.CategoryRepository
	Clock        clock.Clock
	BcryptCost   int
}

// NewService creates a new user Service instance
func NewService(userRepo domain.UserRepository, categoryRepo domain.CategoryRepository, clk clock.Clock, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		Clock:        clk,
		BcryptCost:   bcryptCost,
	}
}

// Register creates a new user with a bcrypt-hashed password and seeds
// the initial category. The time-zone identifier is stored as given;
// it is validated lazily with a fallback at aggregation time.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if _, err := s.UserRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.Now().UTC()
	u := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Surname:      input.Surname,
		TimeZoneID:   input.TimeZoneID,
		CreatedAt:    now,
	}

	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    u.ID,
		Name:      initialCategoryName,
		DateAdded: now,
	}
	if err := s.CategoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("seed initial category: %w", err)
	}

	return u, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password both return ErrInvalidCredentials so the two cases cannot
// be told apart.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return u, nil
}

// GetByID resolves a user record, typically from an access token's
// subject claim.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.UserRepo.GetByID(ctx, id)
}
