package services

import (
	"context"
	"errors"
	"fmt"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, clerk_id, email, username, first_name, last_name, image_url, email_verified, current_challenge_id, created_at, updated_at`

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{}

	query := `
	INSERT INTO users (clerk_id, email, username, first_name, last_name, image_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + userColumns

	err := s.db.QueryRow(
		ctx,
		query,
		req.ClerkID,
		req.Email,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CurrentChallengeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CurrentChallengeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// UpdateUserByClerkID refreshes the profile fields Clerk owns. Empty request
// fields keep their stored values.
func (s *UserService) UpdateUserByClerkID(ctx context.Context, clerkID string, req *user.CreateUserRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		email = COALESCE(NULLIF($2, ''), email),
		username = COALESCE(NULLIF($3, ''), username),
		first_name = COALESCE(NULLIF($4, ''), first_name),
		last_name = COALESCE(NULLIF($5, ''), last_name),
		image_url = COALESCE(NULLIF($6, ''), image_url),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + userColumns

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Email,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CurrentChallengeID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) MarkEmailVerified(ctx context.Context, clerkID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE clerk_id = $1`,
		clerkID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

// DeleteUserByClerkID removes the user row; challenges, app goals and daily
// records cascade with it.
func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
