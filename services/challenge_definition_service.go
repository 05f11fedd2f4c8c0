package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ironPaxAPI/internal/challenge"
)

// ChallengeDefinitionService is the registry of challenge campaigns. It
// holds no transition policy beyond the wall-clock status sweep; admin
// callers are responsible for ordering their own status edits correctly.
type ChallengeDefinitionService struct {
	store challenge.DefinitionStore
	now   func() time.Time
}

func NewChallengeDefinitionService(store challenge.DefinitionStore) *ChallengeDefinitionService {
	return &ChallengeDefinitionService{store: store, now: time.Now}
}

// GetActive returns campaigns open for registration or underway.
func (s *ChallengeDefinitionService) GetActive(ctx context.Context) ([]*challenge.Definition, error) {
	return s.store.GetByStatus(ctx, challenge.StatusPreRegistration, challenge.StatusStarted)
}

func (s *ChallengeDefinitionService) GetCompleted(ctx context.Context) ([]*challenge.Definition, error) {
	return s.store.GetByStatus(ctx, challenge.StatusCompleted)
}

// GetByID returns (nil, nil) when no definition exists under the id.
func (s *ChallengeDefinitionService) GetByID(ctx context.Context, id string) (*challenge.Definition, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ChallengeDefinitionService) Create(ctx context.Context, req *challenge.CreateDefinitionRequest) (*challenge.Definition, error) {
	def, err := req.ToDefinition()
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, def)
	if err != nil {
		return nil, err
	}
	def.ID = id
	return def, nil
}

func (s *ChallengeDefinitionService) Update(ctx context.Context, def *challenge.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	return s.store.Update(ctx, def)
}

func (s *ChallengeDefinitionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Open publishes a draft campaign: it moves to pre-registration, shows up
// in the active listing, and becomes joinable. This is the admin action
// the status sweep picks up from; the sweep itself never touches drafts.
func (s *ChallengeDefinitionService) Open(ctx context.Context, id string) (*challenge.Definition, error) {
	def, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("challenge not found")
	}
	if def.Status != challenge.StatusDraft {
		return nil, fmt.Errorf("challenge %q is already open", def.Name)
	}

	def.Status = challenge.StatusPreRegistration
	if err := s.store.Update(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to open challenge: %w", err)
	}

	log.Printf("Open: challenge %q published for registration", def.Name)
	return def, nil
}

// SweepStatuses advances campaign statuses that are due: pre-registration
// campaigns whose start date arrived become started, and any campaign past
// its end date becomes completed. The sweep runs on view loads, so it must
// stay idempotent and safe when concurrent sessions race to apply the same
// transition; each transition's guard fails after the first application
// and last write wins.
func (s *ChallengeDefinitionService) SweepStatuses(ctx context.Context) error {
	defs, err := s.store.GetByStatus(ctx, challenge.StatusPreRegistration, challenge.StatusStarted)
	if err != nil {
		return fmt.Errorf("status sweep: %w", err)
	}

	now := s.now()
	for _, def := range defs {
		next, changed := def.Advance(now)
		if !changed {
			continue
		}
		def.Status = next
		if err := s.store.Update(ctx, def); err != nil {
			return fmt.Errorf("status sweep: failed to advance %q: %w", def.Name, err)
		}
		log.Printf("SweepStatuses: challenge %q advanced to %s", def.Name, next)
	}
	return nil
}
