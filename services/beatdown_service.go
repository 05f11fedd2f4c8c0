package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ironPaxAPI/internal/beatdown"
	"ironPaxAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BeatdownService struct {
	db *pgxpool.Pool
}

func NewBeatdownService(db *pgxpool.Pool) *BeatdownService {
	return &BeatdownService{db: db}
}

func (s *BeatdownService) CreateBeatdown(ctx context.Context, req *beatdown.CreateBeatdownRequest) (*beatdown.Beatdown, error) {
	aoID, err := uuid.Parse(req.AoID)
	if err != nil {
		return nil, fmt.Errorf("invalid ao id")
	}
	qID, err := uuid.Parse(req.QID)
	if err != nil {
		return nil, fmt.Errorf("invalid q id")
	}
	date, err := challenge.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	b := &beatdown.Beatdown{
		ID:    uuid.New(),
		AoID:  aoID,
		Date:  date,
		QID:   qID,
		Style: req.Style,
		Note:  req.Note,
	}

	query := `
	INSERT INTO beatdowns (id, ao_id, date, q_id, style, note, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query,
		b.ID, b.AoID, b.Date, b.QID, b.Style, b.Note,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create beatdown: %w", err)
	}
	return b, nil
}

// GetBeatdownsInRange pages the schedule by date window, the way the
// calendar views load it.
func (s *BeatdownService) GetBeatdownsInRange(ctx context.Context, from, to time.Time) ([]*beatdown.BeatdownWithAo, error) {
	query := `
	SELECT
		b.id, b.ao_id, b.date, b.q_id, b.style, b.note, b.created_at, b.updated_at,
		a.name AS ao_name,
		u.f3_name AS q_name,
		COUNT(att.id) AS pax_count
	FROM beatdowns b
	INNER JOIN aos a ON a.id = b.ao_id
	INNER JOIN users u ON u.id = b.q_id
	LEFT JOIN attendance att ON att.beatdown_id = b.id
	WHERE b.date >= $1 AND b.date <= $2
	GROUP BY b.id, a.name, u.f3_name
	ORDER BY b.date, a.name
	`

	rows, err := s.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch beatdowns: %w", err)
	}
	defer rows.Close()

	return collectBeatdowns(rows)
}

func (s *BeatdownService) GetBeatdownsForAo(ctx context.Context, aoID string, from, to time.Time) ([]*beatdown.BeatdownWithAo, error) {
	query := `
	SELECT
		b.id, b.ao_id, b.date, b.q_id, b.style, b.note, b.created_at, b.updated_at,
		a.name AS ao_name,
		u.f3_name AS q_name,
		COUNT(att.id) AS pax_count
	FROM beatdowns b
	INNER JOIN aos a ON a.id = b.ao_id
	INNER JOIN users u ON u.id = b.q_id
	LEFT JOIN attendance att ON att.beatdown_id = b.id
	WHERE b.ao_id = $1 AND b.date >= $2 AND b.date <= $3
	GROUP BY b.id, a.name, u.f3_name
	ORDER BY b.date
	`

	rows, err := s.db.Query(ctx, query, aoID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch beatdowns: %w", err)
	}
	defer rows.Close()

	return collectBeatdowns(rows)
}

func (s *BeatdownService) GetBeatdownByID(ctx context.Context, id string) (*beatdown.Beatdown, error) {
	query := `
	SELECT id, ao_id, date, q_id, style, note, created_at, updated_at
	FROM beatdowns
	WHERE id = $1
	`

	b := &beatdown.Beatdown{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.AoID, &b.Date, &b.QID, &b.Style, &b.Note, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("beatdown not found")
		}
		return nil, fmt.Errorf("failed to get beatdown: %w", err)
	}
	return b, nil
}

func (s *BeatdownService) UpdateBeatdown(ctx context.Context, id string, req *beatdown.UpdateBeatdownRequest) (*beatdown.Beatdown, error) {
	var date *time.Time
	if req.Date != "" {
		parsed, err := challenge.ParseDate(req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		date = &parsed
	}

	var qID *uuid.UUID
	if req.QID != "" {
		parsed, err := uuid.Parse(req.QID)
		if err != nil {
			return nil, fmt.Errorf("invalid q id")
		}
		qID = &parsed
	}

	query := `
	UPDATE beatdowns
	SET
		date = COALESCE($2, date),
		q_id = COALESCE($3, q_id),
		style = COALESCE(NULLIF($4, ''), style),
		note = COALESCE(NULLIF($5, ''), note),
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, ao_id, date, q_id, style, note, created_at, updated_at
	`

	b := &beatdown.Beatdown{}
	err := s.db.QueryRow(ctx, query, id, date, qID, req.Style, req.Note).Scan(
		&b.ID, &b.AoID, &b.Date, &b.QID, &b.Style, &b.Note, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("beatdown not found")
		}
		return nil, fmt.Errorf("failed to update beatdown: %w", err)
	}
	return b, nil
}

func (s *BeatdownService) DeleteBeatdown(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM beatdowns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete beatdown: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("beatdown not found")
	}
	return nil
}

func collectBeatdowns(rows pgx.Rows) ([]*beatdown.BeatdownWithAo, error) {
	var beatdowns []*beatdown.BeatdownWithAo
	for rows.Next() {
		b := &beatdown.BeatdownWithAo{}
		err := rows.Scan(
			&b.ID, &b.AoID, &b.Date, &b.QID, &b.Style, &b.Note, &b.CreatedAt, &b.UpdatedAt,
			&b.AoName, &b.QName, &b.PaxCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan beatdown: %w", err)
		}
		beatdowns = append(beatdowns, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if beatdowns == nil {
		beatdowns = []*beatdown.BeatdownWithAo{}
	}
	return beatdowns, nil
}
