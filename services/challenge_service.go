package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ironPaxAPI/internal/cache"
	"ironPaxAPI/internal/challenge"
	"ironPaxAPI/internal/leaderboard"
	"ironPaxAPI/internal/user"
)

// BadgeAwarder is the profile collaborator the challenge service notifies
// when a participant completes a challenge.
type BadgeAwarder interface {
	AwardBadgeByName(ctx context.Context, badgeName, userID string) error
}

// UserDirectory supplies display profiles for roster enrichment.
type UserDirectory interface {
	GetDisplayProfiles(ctx context.Context, userIDs []string) (map[string]user.DisplayProfile, error)
}

// ChallengeService orchestrates participation lifecycles: joining,
// progress logging, completion, withdrawal, and the view-load cleanup
// sweeps. It persists whatever the record operations return; records
// themselves are immutable values.
type ChallengeService struct {
	records     challenge.RecordStore
	definitions challenge.DefinitionStore
	catalog     challenge.BadgeCatalog
	awarder     BadgeAwarder
	directory   UserDirectory
	cache       *cache.Cache
	now         func() time.Time
}

func NewChallengeService(
	records challenge.RecordStore,
	definitions challenge.DefinitionStore,
	catalog challenge.BadgeCatalog,
	awarder BadgeAwarder,
	directory UserDirectory,
	c *cache.Cache,
) *ChallengeService {
	return &ChallengeService{
		records:     records,
		definitions: definitions,
		catalog:     catalog,
		awarder:     awarder,
		directory:   directory,
		cache:       c,
		now:         time.Now,
	}
}

// GetUserChallengeData returns the user's record for a challenge name, or
// nil when the user never joined.
func (s *ChallengeService) GetUserChallengeData(ctx context.Context, userID, challengeName string) (*challenge.Record, error) {
	return s.records.GetByUserAndName(ctx, userID, challengeName)
}

// JoinOrPreRegister creates the user's participation record for a
// campaign. Exactly one record may exist per (user, challenge name); the
// lookup-before-create here is the only enforcement, there is no database
// uniqueness constraint. The registration cutoff is checked here rather
// than left to callers, so every call site gets the same policy.
func (s *ChallengeService) JoinOrPreRegister(ctx context.Context, definitionID, userID string, goal float64) (*challenge.Record, error) {
	def, err := s.definitions.GetByID(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("challenge not found")
	}
	if def.Status == challenge.StatusDraft {
		return nil, fmt.Errorf("challenge %q is not open for registration", def.Name)
	}

	if def.RegistrationClosed(s.now()) {
		return nil, fmt.Errorf("registration for %q closed on %s", def.Name, def.LastRegistrationDate.Format(challenge.DateLayout))
	}

	existing, err := s.records.GetByUserAndName(ctx, userID, def.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("already joined challenge %q", def.Name)
	}

	rec, err := challenge.NewRecord(def, userID, goal)
	if err != nil {
		return nil, err
	}

	id, err := s.records.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	log.Printf("JoinOrPreRegister: user %s joined %q in state %s", userID, def.Name, rec.State)
	return &rec, nil
}

// LogProgress folds a progress report into a record: the count for
// iterative challenges, the quantity for goal challenges, the candidate
// attempt for best-attempt challenges. Reports against a completed record
// are absorbed without effect. Meeting the completion predicate completes
// the challenge in the same call.
func (s *ChallengeService) LogProgress(ctx context.Context, rec challenge.Record, delta float64) (challenge.Record, error) {
	if rec.State == challenge.StateCompleted {
		return rec, nil
	}

	updated, err := rec.ApplyProgress(delta)
	if err != nil {
		return rec, err
	}

	if updated.GoalMet() {
		return s.CompleteChallenge(ctx, updated)
	}

	if err := s.UpdateChallenge(ctx, updated); err != nil {
		return rec, err
	}
	return updated, nil
}

// CompleteChallenge marks the record completed and awards the badge
// configured for the challenge name, if any. Best-attempt challenges have
// no automatic predicate and complete only through this path; the other
// variants must have met their completion requirement, so a participant
// cannot flip an unfinished record into the sink state.
func (s *ChallengeService) CompleteChallenge(ctx context.Context, rec challenge.Record) (challenge.Record, error) {
	if rec.State != challenge.StateCompleted && rec.Type != challenge.TypeBestAttempt && !rec.GoalMet() {
		return rec, fmt.Errorf("challenge %q is not finished: completion requirement not met", rec.Name)
	}

	rec = rec.WithState(challenge.StateCompleted)

	if badgeName, ok := s.catalog.BadgeFor(rec.Name); ok {
		if err := s.awarder.AwardBadgeByName(ctx, badgeName, rec.UserID); err != nil {
			return rec, fmt.Errorf("failed to award badge for %q: %w", rec.Name, err)
		}
	}

	if err := s.UpdateChallenge(ctx, rec); err != nil {
		return rec, err
	}

	log.Printf("CompleteChallenge: user %s completed %q", rec.UserID, rec.Name)
	return rec, nil
}

// UpdateChallenge persists the record as-is, overwriting the stored row.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, rec challenge.Record) error {
	if err := s.records.Update(ctx, rec); err != nil {
		return err
	}
	s.invalidateLeaderboard(ctx, rec)
	return nil
}

// WithdrawUserFromChallenge hard-deletes the record; the user's history
// for the challenge ceases to exist. Confirming intent is the caller's
// job.
func (s *ChallengeService) WithdrawUserFromChallenge(ctx context.Context, rec challenge.Record) error {
	if err := s.records.Delete(ctx, rec.ID); err != nil {
		return err
	}
	s.invalidateLeaderboard(ctx, rec)
	log.Printf("WithdrawUserFromChallenge: user %s withdrew from %q", rec.UserID, rec.Name)
	return nil
}

// GetActiveChallengesForUser returns the user's records that are still in
// play: anything not failed whose window has not closed. Completed records
// stay in the list until the window ends, so finished challenges remain
// visible on the home view.
func (s *ChallengeService) GetActiveChallengesForUser(ctx context.Context, userID string) ([]challenge.Record, error) {
	return s.records.GetActiveForUser(ctx, userID, s.now())
}

// GetAllChallengeParticipants returns the full roster for a challenge,
// every state included, each record enriched with the owner's display
// profile before it is handed back.
func (s *ChallengeService) GetAllChallengeParticipants(ctx context.Context, challengeName string) ([]challenge.Participant, error) {
	recs, err := s.records.GetAllByName(ctx, challengeName)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.UserID)
	}

	profiles, err := s.directory.GetDisplayProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich participants: %w", err)
	}

	participants := make([]challenge.Participant, 0, len(recs))
	for _, r := range recs {
		p := challenge.Participant{Record: r}
		if profile, ok := profiles[r.UserID]; ok {
			p.F3Name = profile.F3Name
			p.ImageURL = profile.ImageURL
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// GetLeaderboard builds the roster leaderboard for a viewer, with the
// viewer's own entry pinned first. Results are cached briefly per viewer.
func (s *ChallengeService) GetLeaderboard(ctx context.Context, challengeName, selfUserID string) (*leaderboard.Leaderboard, error) {
	key := cache.LeaderboardKey(challengeName, selfUserID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var lb leaderboard.Leaderboard
		if err := json.Unmarshal([]byte(cached), &lb); err == nil {
			return &lb, nil
		}
	}

	participants, err := s.GetAllChallengeParticipants(ctx, challengeName)
	if err != nil {
		return nil, err
	}

	lb := leaderboard.Build(challengeName, selfUserID, participants)

	if payload, err := json.Marshal(lb); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), cache.TTLLeaderboard); err != nil {
			log.Printf("GetLeaderboard: cache write failed: %v", err)
		}
	}
	return lb, nil
}

// SweepUserChallenges applies the view-load cleanup transitions to the
// user's records: expired windows fail the record, and pre-registered
// records whose campaign started are promoted. Both transitions are
// guarded, so re-running the sweep changes nothing.
func (s *ChallengeService) SweepUserChallenges(ctx context.Context, userID string) error {
	recs, err := s.records.GetActiveForUser(ctx, userID, time.Time{})
	if err != nil {
		return fmt.Errorf("user sweep: %w", err)
	}
	return s.sweep(ctx, recs)
}

// SweepChallengeParticipants runs the same cleanup over every participant
// of a named challenge, for roster views.
func (s *ChallengeService) SweepChallengeParticipants(ctx context.Context, challengeName string) error {
	recs, err := s.records.GetAllByName(ctx, challengeName)
	if err != nil {
		return fmt.Errorf("challenge sweep: %w", err)
	}
	return s.sweep(ctx, recs)
}

// sweep issues one write per affected record and waits for all of them
// before returning. A failed write does not roll back the others; the
// transitions are cheap to re-apply on the next view load.
func (s *ChallengeService) sweep(ctx context.Context, recs []challenge.Record) error {
	now := s.now()

	var toWrite []challenge.Record
	for _, rec := range recs {
		switch {
		case rec.Expired(now):
			toWrite = append(toWrite, rec.WithState(challenge.StateFailed))
		case rec.DueToStart(now):
			toWrite = append(toWrite, rec.WithState(challenge.StateInProgress))
		}
	}
	if len(toWrite) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(toWrite))
	for i, rec := range toWrite {
		wg.Add(1)
		go func(i int, rec challenge.Record) {
			defer wg.Done()
			errs[i] = s.UpdateChallenge(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// ReportActivity feeds an attendance or workout report into every active
// challenge the user participates in. Completion counts apply as repeated
// single-unit increments; quantities apply as one delta in the challenge
// unit. Best-attempt challenges are untouched, they only move through
// explicit attempt updates.
func (s *ChallengeService) ReportActivity(ctx context.Context, userID string, completions int, quantity float64) error {
	recs, err := s.GetActiveChallengesForUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		switch rec.Type {
		case challenge.TypeIterativeCompletions:
			for i := 0; i < completions; i++ {
				rec, err = s.LogProgress(ctx, rec, 1)
				if err != nil {
					return err
				}
			}
		case challenge.TypeUserSelectedGoal:
			if quantity > 0 {
				if _, err := s.LogProgress(ctx, rec, quantity); err != nil {
					return err
				}
			}
		case challenge.TypeBestAttempt:
			// manual completion only
		}
	}
	return nil
}

func (s *ChallengeService) invalidateLeaderboard(ctx context.Context, rec challenge.Record) {
	if err := s.cache.Delete(ctx, cache.LeaderboardKey(rec.Name, rec.UserID)); err != nil {
		log.Printf("invalidateLeaderboard: %v", err)
	}
}
