package services

import (
	"context"
	"errors"
	"fmt"

	"ironPaxAPI/internal/ao"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AoService struct {
	db *pgxpool.Pool
}

func NewAoService(db *pgxpool.Pool) *AoService {
	return &AoService{db: db}
}

func (s *AoService) CreateAo(ctx context.Context, req *ao.CreateAoRequest) (*ao.Ao, error) {
	var siteQID *uuid.UUID
	if req.SiteQID != nil {
		parsed, err := uuid.Parse(*req.SiteQID)
		if err != nil {
			return nil, fmt.Errorf("invalid site-q id")
		}
		siteQID = &parsed
	}

	a := &ao.Ao{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Schedule: req.Schedule,
		SiteQID:  siteQID,
		Active:   true,
	}

	query := `
	INSERT INTO aos (id, name, address, city, schedule, site_q_id, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	err := s.db.QueryRow(ctx, query,
		a.ID, a.Name, a.Address, a.City, a.Schedule, a.SiteQID, a.Active,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ao: %w", err)
	}
	return a, nil
}

func (s *AoService) GetAoByID(ctx context.Context, id string) (*ao.Ao, error) {
	query := `
	SELECT id, name, address, city, schedule, site_q_id, active, created_at, updated_at
	FROM aos
	WHERE id = $1
	`

	a := &ao.Ao{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Address, &a.City, &a.Schedule, &a.SiteQID, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ao not found")
		}
		return nil, fmt.Errorf("failed to get ao: %w", err)
	}
	return a, nil
}

func (s *AoService) ListActiveAos(ctx context.Context) ([]*ao.Ao, error) {
	query := `
	SELECT id, name, address, city, schedule, site_q_id, active, created_at, updated_at
	FROM aos
	WHERE active = true
	ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aos: %w", err)
	}
	defer rows.Close()

	var aos []*ao.Ao
	for rows.Next() {
		a := &ao.Ao{}
		err := rows.Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Schedule, &a.SiteQID, &a.Active, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ao: %w", err)
		}
		aos = append(aos, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if aos == nil {
		aos = []*ao.Ao{}
	}
	return aos, nil
}

func (s *AoService) UpdateAo(ctx context.Context, id string, req *ao.UpdateAoRequest) (*ao.Ao, error) {
	var siteQID *uuid.UUID
	if req.SiteQID != nil {
		parsed, err := uuid.Parse(*req.SiteQID)
		if err != nil {
			return nil, fmt.Errorf("invalid site-q id")
		}
		siteQID = &parsed
	}

	query := `
	UPDATE aos
	SET
		name = COALESCE(NULLIF($2, ''), name),
		address = COALESCE(NULLIF($3, ''), address),
		city = COALESCE(NULLIF($4, ''), city),
		schedule = COALESCE($5, schedule),
		site_q_id = COALESCE($6, site_q_id),
		active = COALESCE($7, active),
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, name, address, city, schedule, site_q_id, active, created_at, updated_at
	`

	a := &ao.Ao{}
	err := s.db.QueryRow(ctx, query,
		id, req.Name, req.Address, req.City, req.Schedule, siteQID, req.Active,
	).Scan(&a.ID, &a.Name, &a.Address, &a.City, &a.Schedule, &a.SiteQID, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ao not found")
		}
		return nil, fmt.Errorf("failed to update ao: %w", err)
	}
	return a, nil
}

func (s *AoService) DeleteAo(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM aos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ao: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ao not found")
	}
	return nil
}
