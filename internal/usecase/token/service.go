// Package token issues and validates JWT access tokens and opaque
// refresh tokens. Refresh tokens are stored bcrypt-hashed; presenting
// one requires the matching expired (or still valid) access token so
// the refresh flow knows which user's hashes to check.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/domain"
)

// ErrInvalidToken is returned for tokens that fail signature, issuer,
// or lifetime checks, and for refresh tokens with no matching hash.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the access-token payload. Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Pair is one issued access/refresh token set.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ValidTill    time.Time
}

// Service handles token issuance and validation
type Service struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	UserRepo    domain.UserRepository
	RefreshRepo domain.RefreshTokenRepository
	Clock       clock.Clock
}

// NewService creates a new token Service instance
func NewService(secret []byte, issuer string, accessTTL, refreshTTL time.Duration, userRepo domain.UserRepository, refreshRepo domain.RefreshTokenRepository, clk clock.Clock) *Service {
	return &Service{
		Secret:      secret,
		Issuer:      issuer,
		AccessTTL:   accessTTL,
		RefreshTTL:  refreshTTL,
		UserRepo:    userRepo,
		RefreshRepo: refreshRepo,
		Clock:       clk,
	}
}

// GenerateAccessToken signs a short-lived HS256 token for the user and
// returns it with its expiry instant.
func (s *Service) GenerateAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.Clock.Now()
	expires := now.Add(s.AccessTTL)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expires, nil
}

// IssuePair generates an access token plus a fresh refresh token and
// persists the refresh token's bcrypt hash with its expiry. Refresh
// hashes that have already expired are swept as a side effect.
func (s *Service) IssuePair(ctx context.Context, user *domain.User) (*Pair, error) {
	access, validTill, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(refresh), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	now := s.Clock.Now()
	stored := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: string(hash),
		CreatedAt: now,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.RefreshRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	// expired hashes are swept on each issuance; a failed sweep never
	// blocks the login
	_ = s.RefreshRepo.DeleteExpired(ctx, now)

	return &Pair{AccessToken: access, RefreshToken: refresh, ValidTill: validTill}, nil
}

// ParseAccessToken validates a token's signature, issuer, and lifetime
// and returns the subject user ID.
func (s *Service) ParseAccessToken(tokenStr string) (uuid.UUID, error) {
	return s.parse(tokenStr, false)
}

// Refresh exchanges an expired access token plus a live refresh token
// for a new access token. The access token's signature must still
// verify; only its lifetime is ignored.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (string, time.Time, error) {
	userID, err := s.parse(accessToken, true)
	if err != nil {
		return "", time.Time{}, err
	}

	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", time.Time{}, ErrInvalidToken
		}
		return "", time.Time{}, fmt.Errorf("look up user: %w", err)
	}

	active, err := s.RefreshRepo.ListActiveByUser(ctx, user.ID, s.Clock.Now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("list refresh tokens: %w", err)
	}

	for _, stored := range active {
		if bcrypt.CompareHashAndPassword([]byte(stored.TokenHash), []byte(refreshToken)) == nil {
			return s.GenerateAccessToken(user)
		}
	}

	return "", time.Time{}, ErrInvalidToken
}

// parse verifies a token and extracts the subject user ID.
// allowExpired skips lifetime validation for the refresh flow.
func (s *Service) parse(tokenStr string, allowExpired bool) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithTimeFunc(s.Clock.Now),
	}
	if allowExpired {
		opts = []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// generateRefreshToken returns 32 bytes of randomness, base64-encoded.
func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
