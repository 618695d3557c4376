package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finlitportal/finlit-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRefreshInvalid     = errors.New("refresh token invalid or expired")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// AuthService handles password hashing, JWT issuing and the refresh-token
// registry. Refresh tokens are opaque UUIDs stored in Redis keyed back to
// the user id, so revocation is a single key delete.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateAccessToken creates a short-lived JWT for the user.
func (s *AuthService) GenerateAccessToken(userID int, email, username, name string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
		},
		Email:    email,
		Username: username,
		Name:     name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// IssueRefreshToken stores a fresh opaque refresh token in Redis with the
// configured expiry and returns it.
func (s *AuthService) IssueRefreshToken(ctx context.Context, userID int) (string, error) {
	token := uuid.New().String()
	key := config.CacheKey.RefreshTokenKey(token)

	if err := s.rdb.Set(ctx, key, strconv.Itoa(userID), s.cfg.RefreshExpiry).Err(); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// ResolveRefreshToken looks up the user id behind a refresh token.
func (s *AuthService) ResolveRefreshToken(ctx context.Context, token string) (int, error) {
	key := config.CacheKey.RefreshTokenKey(token)

	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrRefreshInvalid
		}
		return 0, fmt.Errorf("check refresh token: %w", err)
	}

	userID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrRefreshInvalid
	}
	return userID, nil
}

// RevokeRefreshToken deletes a refresh token. Revoking an unknown token is
// not an error.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, token string) error {
	key := config.CacheKey.RefreshTokenKey(token)
	return s.rdb.Del(ctx, key).Err()
}
