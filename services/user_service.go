package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ironPaxAPI/internal/badge"
	"ironPaxAPI/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New().String(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		F3Name:    req.F3Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		Roles:     []string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, f3_name, first_name, last_name, image_url, roles, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, clerk_id, email, f3_name, first_name, last_name, image_url, roles, email_verified, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.F3Name,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.Roles,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.F3Name,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.Roles,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, f3_name, first_name, last_name, image_url, roles, home_ao_id, email_verified, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.F3Name,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.Roles,
		&u.HomeAoID,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		f3_name = COALESCE(NULLIF($2, ''), f3_name),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		image_url = COALESCE(NULLIF($5, ''), image_url),
		home_ao_id = COALESCE($6, home_ao_id),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, f3_name, first_name, last_name, image_url, roles, home_ao_id, email_verified, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.F3Name,
		req.FirstName,
		req.LastName,
		req.ImageURL,
		req.HomeAoID,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.F3Name,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.Roles,
		&u.HomeAoID,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// UpdateRoles replaces a user's role set. The handler layer restricts this
// to admins.
func (s *UserService) UpdateRoles(ctx context.Context, userID string, roles []string) error {
	result, err := s.db.Exec(ctx,
		`UPDATE users SET roles = $2, updated_at = NOW() WHERE id = $1`,
		userID, roles)
	if err != nil {
		return fmt.Errorf("failed to update roles: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `
	SELECT id, clerk_id, email, f3_name, first_name, last_name, image_url, roles, home_ao_id, email_verified, created_at, updated_at
	FROM users
	ORDER BY f3_name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u := &user.User{}
		err := rows.Scan(
			&u.ID,
			&u.ClerkID,
			&u.Email,
			&u.F3Name,
			&u.FirstName,
			&u.LastName,
			&u.ImageURL,
			&u.Roles,
			&u.HomeAoID,
			&u.EmailVerified,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if users == nil {
		users = []*user.User{}
	}
	return users, nil
}

// GetDisplayProfiles bulk-loads the roster slice of profiles for a set of
// user ids. Missing ids are simply absent from the map.
func (s *UserService) GetDisplayProfiles(ctx context.Context, userIDs []string) (map[string]user.DisplayProfile, error) {
	profiles := make(map[string]user.DisplayProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	query := `
	SELECT id, f3_name, COALESCE(image_url, '')
	FROM users
	WHERE id = ANY($1)
	`

	rows, err := s.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch display profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p user.DisplayProfile
		if err := rows.Scan(&p.ID, &p.F3Name, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan display profile: %w", err)
		}
		profiles[p.ID] = p
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return profiles, nil
}

func (s *UserService) GetBadges(ctx context.Context, clerkID string) ([]*badge.BadgeWithStatus, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT
		b.id,
		b.name,
		b.description,
		b.icon,
		b.criteria_type,
		b.criteria_value,
		b.created_at,
		CASE WHEN ub.id IS NOT NULL THEN true ELSE false END as unlocked,
		ub.unlocked_at
	FROM badges b
	LEFT JOIN user_badges ub ON b.id = ub.badge_id AND ub.user_id = $1
	ORDER BY unlocked DESC, b.criteria_value ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	var badges []*badge.BadgeWithStatus
	for rows.Next() {
		b := &badge.BadgeWithStatus{}
		err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Description,
			&b.Icon,
			&b.CriteriaType,
			&b.CriteriaValue,
			&b.CreatedAt,
			&b.Unlocked,
			&b.UnlockedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return badges, nil
}

// RequireRole loads the user for a clerk id and checks the role, logging
// rejections for the audit trail.
func (s *UserService) RequireRole(ctx context.Context, clerkID string, role user.Role) (*user.User, error) {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(role) && !u.IsAdmin() {
		log.Printf("RequireRole: user %s lacks role %s", clerkID, role)
		return nil, fmt.Errorf("insufficient permissions")
	}
	return u, nil
}
