package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/finlitportal/finlit-backend/internal/repository"
)

var (
	ErrWeakPassword    = errors.New("password must contain at least one letter and one digit")
	ErrInvalidUsername = errors.New("username may contain only latin letters, digits, '_' and '-'")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// UserService handles account registration and profile access.
type UserService struct {
	users   *repository.UserRepository
	results *repository.ResultRepository
	auth    *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, results *repository.ResultRepository, auth *AuthService) *UserService {
	return &UserService{users: users, results: results, auth: auth}
}

// Register creates an account. Email is lowercased before storage so the
// unique index catches case variants.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if !passwordStrongEnough(req.Password) {
		return nil, ErrWeakPassword
	}
	if req.Username != "" && !usernamePattern.MatchString(req.Username) {
		return nil, ErrInvalidUsername
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}
	if req.Username != "" {
		username := req.Username
		user.Username = &username
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials by email or username.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user profile.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Cabinet assembles the personal cabinet view: profile, result history
// and aggregate stats.
func (s *UserService) Cabinet(ctx context.Context, userID int) (*model.User, []model.TestResult, *model.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	stats, err := s.results.StatsByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, results, stats, nil
}

func passwordStrongEnough(password string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
