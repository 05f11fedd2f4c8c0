package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ironPaxAPI/internal/badge"
	"ironPaxAPI/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushProvider delivers badge notifications to a user's devices.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

type BadgeService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewBadgeService(db *pgxpool.Pool) *BadgeService {
	return &BadgeService{db: db}
}

// SetPushProvider injects the push transport. Without one, awards still
// persist; only the notification is skipped.
func (s *BadgeService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *BadgeService) GetBadgeByName(ctx context.Context, name string) (*badge.Badge, error) {
	query := `
	SELECT id, name, description, icon, criteria_type, criteria_value, created_at
	FROM badges
	WHERE name = $1
	`

	b := &badge.Badge{}
	err := s.db.QueryRow(ctx, query, name).Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.Icon,
		&b.CriteriaType,
		&b.CriteriaValue,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get badge: %w", err)
	}
	return b, nil
}

// AwardBadgeByName unlocks the named badge for a user. The upsert makes
// repeated awards a no-op, and an unknown badge name awards nothing.
func (s *BadgeService) AwardBadgeByName(ctx context.Context, badgeName, userID string) error {
	b, err := s.GetBadgeByName(ctx, badgeName)
	if err != nil {
		return err
	}
	if b == nil {
		log.Printf("AwardBadgeByName: no badge configured under %q, nothing to award", badgeName)
		return nil
	}

	query := `
	INSERT INTO user_badges (id, user_id, badge_id, unlocked_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, badge_id) DO NOTHING
	`

	result, err := s.db.Exec(ctx, query, uuid.New().String(), userID, b.ID)
	if err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}

	if result.RowsAffected() > 0 {
		s.notifyUnlock(ctx, userID, b)
	}
	return nil
}

// notifyUnlock pushes the unlock to the user's devices. Best effort: a
// failed push never fails the award.
func (s *BadgeService) notifyUnlock(ctx context.Context, userID string, b *badge.Badge) {
	if s.push == nil {
		return
	}

	tokens, err := s.getDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("notifyUnlock: failed to load device tokens for %s: %v", userID, err)
		return
	}

	err = s.push.SendPush(ctx, tokens, "Badge unlocked!", fmt.Sprintf("You earned %s", b.Name), map[string]string{
		"type":    "badge_unlocked",
		"badgeId": b.ID.String(),
	})
	if err != nil {
		log.Printf("notifyUnlock: push failed for %s: %v", userID, err)
	}
}

func (s *BadgeService) getDeviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx,
		`SELECT token, platform FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// RegisterDevice stores a push token for a user, replacing a stale row for
// the same token.
func (s *BadgeService) RegisterDevice(ctx context.Context, userID, token, platform string) error {
	query := `
	INSERT INTO device_tokens (user_id, token, platform, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3
	`
	_, err := s.db.Exec(ctx, query, userID, token, platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}
