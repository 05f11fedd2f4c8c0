package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ironPaxAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRecordStore persists participation records in Postgres. All variants
// share one table; the type column discriminates which progress columns
// are meaningful.
type PgRecordStore struct {
	db *pgxpool.Pool
}

func NewPgRecordStore(db *pgxpool.Pool) *PgRecordStore {
	return &PgRecordStore{db: db}
}

const recordColumns = `
	id, user_id, challenge_name, challenge_type, state, start_date, end_date,
	end_date_time, active_completions, total_to_complete, best_attempt,
	goal, current_value, created_at, updated_at
`

func (s *PgRecordStore) GetByID(ctx context.Context, id string) (*challenge.Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM challenge_participants
	WHERE id = $1
	`

	rec, err := scanRecord(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participation record: %w", err)
	}
	return &rec, nil
}

func (s *PgRecordStore) GetByUserAndName(ctx context.Context, userID, name string) (*challenge.Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM challenge_participants
	WHERE user_id = $1 AND challenge_name = $2
	`

	rec, err := scanRecord(s.db.QueryRow(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participation record: %w", err)
	}
	return &rec, nil
}

func (s *PgRecordStore) GetActiveForUser(ctx context.Context, userID string, now time.Time) ([]challenge.Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM challenge_participants
	WHERE user_id = $1
	  AND state != $2
	  AND end_date_time >= $3
	ORDER BY end_date_time, challenge_name
	`

	rows, err := s.db.Query(ctx, query, userID, challenge.StateFailed, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *PgRecordStore) GetAllByName(ctx context.Context, name string) ([]challenge.Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM challenge_participants
	WHERE challenge_name = $1
	ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (s *PgRecordStore) Create(ctx context.Context, rec challenge.Record) (string, error) {
	id := uuid.New().String()

	query := `
	INSERT INTO challenge_participants
		(id, user_id, challenge_name, challenge_type, state, start_date,
		 end_date, end_date_time, active_completions, total_to_complete,
		 best_attempt, goal, current_value, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	_, err := s.db.Exec(ctx, query,
		id,
		rec.UserID,
		rec.Name,
		rec.Type,
		rec.State,
		rec.StartDate,
		rec.EndDate,
		rec.EndDateTime,
		rec.ActiveCompletions,
		rec.TotalToComplete,
		rec.BestAttempt,
		rec.Goal,
		rec.CurrentValue,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create participation record: %w", err)
	}
	return id, nil
}

func (s *PgRecordStore) Update(ctx context.Context, rec challenge.Record) error {
	query := `
	UPDATE challenge_participants
	SET state = $2,
		active_completions = $3,
		best_attempt = $4,
		current_value = $5,
		updated_at = NOW()
	WHERE id = $1
	`

	result, err := s.db.Exec(ctx, query,
		rec.ID,
		rec.State,
		rec.ActiveCompletions,
		rec.BestAttempt,
		rec.CurrentValue,
	)
	if err != nil {
		return fmt.Errorf("failed to update participation record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("participation record not found")
	}
	return nil
}

func (s *PgRecordStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM challenge_participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participation record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("participation record not found")
	}
	return nil
}

func scanRecord(row pgx.Row) (challenge.Record, error) {
	var rec challenge.Record
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Name,
		&rec.Type,
		&rec.State,
		&rec.StartDate,
		&rec.EndDate,
		&rec.EndDateTime,
		&rec.ActiveCompletions,
		&rec.TotalToComplete,
		&rec.BestAttempt,
		&rec.Goal,
		&rec.CurrentValue,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]challenge.Record, error) {
	var records []challenge.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}
