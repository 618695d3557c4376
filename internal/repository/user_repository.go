package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/finlitportal/finlit-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDuplicateEmail    = errors.New("user with this email already exists")
	ErrDuplicateUsername = errors.New("user with this username already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user and fills in the generated id and timestamp.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id, created_at`,
		u.Email, u.Username, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return ErrDuplicateUsername
			}
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByLogin retrieves a user by email or username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, email, username, name, password_hash, created_at
		 FROM users WHERE email = lower($1) OR username = $1`, login,
	).Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, email, username, name, password_hash, created_at
		 FROM users WHERE user_id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
