package services

import (
	"context"
	"fmt"
	"log"

	"ironPaxAPI/internal/attendance"
	"ironPaxAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressReporter is the challenge-side hook attendance feeds into.
type ProgressReporter interface {
	ReportActivity(ctx context.Context, userID string, completions int, quantity float64) error
}

type AttendanceService struct {
	db       *pgxpool.Pool
	reporter ProgressReporter
}

func NewAttendanceService(db *pgxpool.Pool, reporter ProgressReporter) *AttendanceService {
	return &AttendanceService{db: db, reporter: reporter}
}

// PostAttendance records a user at a beatdown. A pre-activity alongside
// the post counts one completion toward the user's iterative challenges.
func (s *AttendanceService) PostAttendance(ctx context.Context, userID string, req *attendance.PostAttendanceRequest) (*attendance.Attendance, error) {
	beatdownID, err := uuid.Parse(req.BeatdownID)
	if err != nil {
		return nil, fmt.Errorf("invalid beatdown id")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}

	a := &attendance.Attendance{
		ID:              uuid.New(),
		UserID:          uid,
		BeatdownID:      beatdownID,
		PreActivity:     req.PreActivity,
		PreActivityType: req.PreActivityType,
	}

	query := `
	INSERT INTO attendance (id, user_id, beatdown_id, pre_activity, pre_activity_type, logged_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (user_id, beatdown_id) DO UPDATE SET
		pre_activity = EXCLUDED.pre_activity,
		pre_activity_type = EXCLUDED.pre_activity_type
	RETURNING logged_at
	`

	err = s.db.QueryRow(ctx, query,
		a.ID, a.UserID, a.BeatdownID, a.PreActivity, a.PreActivityType,
	).Scan(&a.LoggedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to post attendance: %w", err)
	}

	if req.PreActivity {
		if err := s.reporter.ReportActivity(ctx, userID, 1, 0); err != nil {
			// attendance is already saved; challenge progress is retried by
			// the user re-posting if this fails
			log.Printf("PostAttendance: challenge progress report failed for %s: %v", userID, err)
		}
	}
	return a, nil
}

func (s *AttendanceService) RemoveAttendance(ctx context.Context, userID, beatdownID string) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM attendance WHERE user_id = $1 AND beatdown_id = $2`,
		userID, beatdownID)
	if err != nil {
		return fmt.Errorf("failed to remove attendance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendance not found")
	}
	return nil
}

func (s *AttendanceService) GetAttendanceForBeatdown(ctx context.Context, beatdownID string) ([]*attendance.Attendance, error) {
	query := `
	SELECT id, user_id, beatdown_id, pre_activity, pre_activity_type, logged_at
	FROM attendance
	WHERE beatdown_id = $1
	ORDER BY logged_at
	`

	rows, err := s.db.Query(ctx, query, beatdownID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	defer rows.Close()

	var list []*attendance.Attendance
	for rows.Next() {
		a := &attendance.Attendance{}
		err := rows.Scan(&a.ID, &a.UserID, &a.BeatdownID, &a.PreActivity, &a.PreActivityType, &a.LoggedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if list == nil {
		list = []*attendance.Attendance{}
	}
	return list, nil
}

// LogWorkout stores a personal workout and reports its quantity into the
// user's goal-type challenges.
func (s *AttendanceService) LogWorkout(ctx context.Context, userID string, req *attendance.LogWorkoutRequest) (*attendance.WorkoutLog, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}

	date, err := challenge.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	w := &attendance.WorkoutLog{
		ID:           uuid.New(),
		UserID:       uid,
		Date:         date,
		ActivityType: req.ActivityType,
		Quantity:     req.Quantity,
		Note:         req.Note,
	}

	query := `
	INSERT INTO workout_logs (id, user_id, date, activity_type, quantity, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING created_at
	`

	err = s.db.QueryRow(ctx, query,
		w.ID, w.UserID, w.Date, w.ActivityType, w.Quantity, w.Note,
	).Scan(&w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to log workout: %w", err)
	}

	if err := s.reporter.ReportActivity(ctx, userID, 1, w.Quantity); err != nil {
		log.Printf("LogWorkout: challenge progress report failed for %s: %v", userID, err)
	}
	return w, nil
}

func (s *AttendanceService) GetWorkoutsForUser(ctx context.Context, userID string, limit int) ([]*attendance.WorkoutLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, user_id, date, activity_type, quantity, note, created_at
	FROM workout_logs
	WHERE user_id = $1
	ORDER BY date DESC
	LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workouts: %w", err)
	}
	defer rows.Close()

	var logs []*attendance.WorkoutLog
	for rows.Next() {
		w := &attendance.WorkoutLog{}
		err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.ActivityType, &w.Quantity, &w.Note, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		logs = append(logs, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if logs == nil {
		logs = []*attendance.WorkoutLog{}
	}
	return logs, nil
}
