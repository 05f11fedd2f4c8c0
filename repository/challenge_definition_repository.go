package repository

import (
	"context"
	"errors"
	"fmt"

	"ironPaxAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgDefinitionStore persists challenge definitions in Postgres.
type PgDefinitionStore struct {
	db *pgxpool.Pool
}

func NewPgDefinitionStore(db *pgxpool.Pool) *PgDefinitionStore {
	return &PgDefinitionStore{db: db}
}

const definitionColumns = `
	id, name, challenge_type, status, start_date, end_date,
	last_registration_date, total_completions_required, goal_options, created_at
`

func (s *PgDefinitionStore) GetByID(ctx context.Context, id string) (*challenge.Definition, error) {
	query := `
	SELECT ` + definitionColumns + `
	FROM challenge_definitions
	WHERE id = $1
	`

	def, err := scanDefinition(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get challenge definition: %w", err)
	}
	return def, nil
}

func (s *PgDefinitionStore) GetByStatus(ctx context.Context, statuses ...challenge.Status) ([]*challenge.Definition, error) {
	query := `
	SELECT ` + definitionColumns + `
	FROM challenge_definitions
	WHERE status = ANY($1)
	ORDER BY start_date, name
	`

	vals := make([]string, 0, len(statuses))
	for _, st := range statuses {
		vals = append(vals, string(st))
	}

	rows, err := s.db.Query(ctx, query, vals)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge definitions: %w", err)
	}
	defer rows.Close()

	var defs []*challenge.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge definition: %w", err)
		}
		defs = append(defs, def)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return defs, nil
}

func (s *PgDefinitionStore) Create(ctx context.Context, def *challenge.Definition) (string, error) {
	id := uuid.New().String()

	query := `
	INSERT INTO challenge_definitions
		(id, name, challenge_type, status, start_date, end_date,
		 last_registration_date, total_completions_required, goal_options, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	_, err := s.db.Exec(ctx, query,
		id,
		def.Name,
		def.Type,
		def.Status,
		def.StartDate,
		def.EndDate,
		def.LastRegistrationDate,
		def.Requirements.TotalCompletionsRequired,
		def.Requirements.GoalOptions,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create challenge definition: %w", err)
	}
	return id, nil
}

func (s *PgDefinitionStore) Update(ctx context.Context, def *challenge.Definition) error {
	query := `
	UPDATE challenge_definitions
	SET name = $2,
		challenge_type = $3,
		status = $4,
		start_date = $5,
		end_date = $6,
		last_registration_date = $7,
		total_completions_required = $8,
		goal_options = $9
	WHERE id = $1
	`

	result, err := s.db.Exec(ctx, query,
		def.ID,
		def.Name,
		def.Type,
		def.Status,
		def.StartDate,
		def.EndDate,
		def.LastRegistrationDate,
		def.Requirements.TotalCompletionsRequired,
		def.Requirements.GoalOptions,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge definition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge definition not found")
	}
	return nil
}

func (s *PgDefinitionStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM challenge_definitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge definition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge definition not found")
	}
	return nil
}

func scanDefinition(row pgx.Row) (*challenge.Definition, error) {
	def := &challenge.Definition{}
	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Type,
		&def.Status,
		&def.StartDate,
		&def.EndDate,
		&def.LastRegistrationDate,
		&def.Requirements.TotalCompletionsRequired,
		&def.Requirements.GoalOptions,
		&def.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return def, nil
}
