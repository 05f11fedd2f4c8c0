package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ironPaxAPI/internal/challenge"
	"ironPaxAPI/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes -------------------------------------------------------

type fakeDefinitionStore struct {
	mu   sync.Mutex
	defs map[string]*challenge.Definition
	seq  int
}

func newFakeDefinitionStore() *fakeDefinitionStore {
	return &fakeDefinitionStore{defs: make(map[string]*challenge.Definition)}
}

func (f *fakeDefinitionStore) GetByID(_ context.Context, id string) (*challenge.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.defs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDefinitionStore) GetByStatus(_ context.Context, statuses ...challenge.Status) ([]*challenge.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*challenge.Definition
	for _, d := range f.defs {
		for _, st := range statuses {
			if d.Status == st {
				cp := *d
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDefinitionStore) Create(_ context.Context, def *challenge.Definition) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("def-%d", f.seq)
	cp := *def
	cp.ID = id
	f.defs[id] = &cp
	return id, nil
}

func (f *fakeDefinitionStore) Update(_ context.Context, def *challenge.Definition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.defs[def.ID]; !ok {
		return fmt.Errorf("definition %s not found", def.ID)
	}
	cp := *def
	f.defs[def.ID] = &cp
	return nil
}

func (f *fakeDefinitionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.defs, id)
	return nil
}

type fakeRecordStore struct {
	mu   sync.Mutex
	recs map[string]challenge.Record
	seq  int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{recs: make(map[string]challenge.Record)}
}

func (f *fakeRecordStore) GetByID(_ context.Context, id string) (*challenge.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRecordStore) GetByUserAndName(_ context.Context, userID, name string) (*challenge.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recs {
		if r.UserID == userID && r.Name == name {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordStore) GetActiveForUser(_ context.Context, userID string, now time.Time) ([]challenge.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []challenge.Record
	for _, r := range f.recs {
		if r.UserID != userID || r.State == challenge.StateFailed {
			continue
		}
		if r.EndDateTime.Before(now) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRecordStore) GetAllByName(_ context.Context, name string) ([]challenge.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []challenge.Record
	for _, r := range f.recs {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordStore) Create(_ context.Context, rec challenge.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("rec-%d", f.seq)
	rec.ID = id
	f.recs[id] = rec
	return id, nil
}

func (f *fakeRecordStore) Update(_ context.Context, rec challenge.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[rec.ID]; !ok {
		return fmt.Errorf("record %s not found", rec.ID)
	}
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakeRecordStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[id]; !ok {
		return fmt.Errorf("record %s not found", id)
	}
	delete(f.recs, id)
	return nil
}

type fakeAwarder struct {
	mu     sync.Mutex
	awards []string // "badgeName:userID"
}

func (f *fakeAwarder) AwardBadgeByName(_ context.Context, badgeName, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awards = append(f.awards, badgeName+":"+userID)
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetDisplayProfiles(_ context.Context, userIDs []string) (map[string]user.DisplayProfile, error) {
	out := make(map[string]user.DisplayProfile, len(userIDs))
	for _, id := range userIDs {
		out[id] = user.DisplayProfile{ID: id, F3Name: "pax-" + id}
	}
	return out, nil
}

// --- fixtures --------------------------------------------------------------

var (
	testStart  = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	testEnd    = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	testCutoff = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	midWindow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

type challengeFixture struct {
	svc     *ChallengeService
	records *fakeRecordStore
	defs    *fakeDefinitionStore
	awarder *fakeAwarder
}

func newChallengeFixture(t *testing.T, now time.Time) *challengeFixture {
	t.Helper()

	records := newFakeRecordStore()
	defs := newFakeDefinitionStore()
	awarder := &fakeAwarder{}

	svc := NewChallengeService(records, defs, challenge.DefaultBadgeCatalog(), awarder, fakeDirectory{}, nil)
	svc.now = func() time.Time { return now }

	return &challengeFixture{svc: svc, records: records, defs: defs, awarder: awarder}
}

func (fx *challengeFixture) addDefinition(t *testing.T, def *challenge.Definition) *challenge.Definition {
	t.Helper()
	id, err := fx.defs.Create(context.Background(), def)
	require.NoError(t, err)
	def.ID = id
	return def
}

func burpeeDefinition(status challenge.Status) *challenge.Definition {
	return &challenge.Definition{
		Name:                 "300 Burpee Challenge",
		Type:                 challenge.TypeIterativeCompletions,
		Status:               status,
		StartDate:            testStart,
		EndDate:              testEnd,
		LastRegistrationDate: testCutoff,
		Requirements:         challenge.CompletionRequirements{TotalCompletionsRequired: 3},
	}
}

// --- tests -----------------------------------------------------------------

func TestJoinCreatesRecord(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateNotStarted, rec.State)
	assert.Equal(t, 3, rec.TotalToComplete)
	assert.NotEmpty(t, rec.ID)
}

func TestJoinRejectsDuplicate(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	_, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	_, err = fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	assert.ErrorContains(t, err, "already joined")
}

func TestJoinRejectsAfterCutoff(t *testing.T) {
	afterCutoff := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	fx := newChallengeFixture(t, afterCutoff)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusPreRegistration))

	_, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	assert.ErrorContains(t, err, "closed")
}

func TestJoinUnknownDefinition(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)

	_, err := fx.svc.JoinOrPreRegister(context.Background(), "nope", "u1", 0)
	assert.ErrorContains(t, err, "not found")
}

func TestLogProgressCompletesAndAwardsBadge(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	updated, err := fx.svc.LogProgress(context.Background(), *rec, 3)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, updated.State)
	assert.Equal(t, []string{"Burpee Beast:u1"}, fx.awarder.awards)

	stored, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, stored.State)
}

func TestLogProgressOnCompletedIsANoop(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	completed, err := fx.svc.LogProgress(context.Background(), *rec, 3)
	require.NoError(t, err)

	again, err := fx.svc.LogProgress(context.Background(), completed, 5)
	require.NoError(t, err)
	assert.Equal(t, completed, again)
	assert.Len(t, fx.awarder.awards, 1, "no second badge award")
}

func TestLogProgressGoalCompletesOnThirdReport(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := burpeeDefinition(challenge.StatusStarted)
	def.Name = "100 Mile Month"
	def.Type = challenge.TypeUserSelectedGoal
	def.Requirements = challenge.CompletionRequirements{GoalOptions: []float64{30, 60, 100}}
	fx.addDefinition(t, def)

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 60)
	require.NoError(t, err)

	cur := *rec
	for _, delta := range []float64{20, 25} {
		cur, err = fx.svc.LogProgress(context.Background(), cur, delta)
		require.NoError(t, err)
		assert.NotEqual(t, challenge.StateCompleted, cur.State)
	}

	cur, err = fx.svc.LogProgress(context.Background(), cur, 20)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, cur.State)
	assert.Equal(t, float64(65), cur.CurrentValue, "value overshoots the goal, not clamped")
	assert.Equal(t, []string{"Century Club:u1"}, fx.awarder.awards)
}

func TestCompleteWithoutBadgeMapping(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := burpeeDefinition(challenge.StatusStarted)
	def.Name = "Unmapped Challenge"
	fx.addDefinition(t, def)

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	updated, err := fx.svc.LogProgress(context.Background(), *rec, 3)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, updated.State)
	assert.Empty(t, fx.awarder.awards)
}

func TestWithdrawHardDeletes(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	require.NoError(t, fx.svc.WithdrawUserFromChallenge(context.Background(), *rec))

	gone, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	active, err := fx.svc.GetActiveChallengesForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, active)

	participants, err := fx.svc.GetAllChallengeParticipants(context.Background(), def.Name)
	require.NoError(t, err)
	assert.Empty(t, participants)

	// The user can rejoin from scratch after withdrawing.
	fresh, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.ActiveCompletions)
}

func TestSweepFailsExpiredRecords(t *testing.T) {
	afterWindow := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return afterWindow }
	require.NoError(t, fx.svc.SweepUserChallenges(context.Background(), "u1"))

	stored, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateFailed, stored.State)

	// Re-running the sweep must not change anything further.
	require.NoError(t, fx.svc.SweepUserChallenges(context.Background(), "u1"))
	stored, err = fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateFailed, stored.State)
}

func TestSweepNeverFailsCompletedRecords(t *testing.T) {
	afterWindow := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	completed, err := fx.svc.LogProgress(context.Background(), *rec, 3)
	require.NoError(t, err)
	require.Equal(t, challenge.StateCompleted, completed.State)

	fx.svc.now = func() time.Time { return afterWindow }
	require.NoError(t, fx.svc.SweepUserChallenges(context.Background(), "u1"))

	stored, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, stored.State)
}

func TestSweepPromotesPreRegisteredAtStart(t *testing.T) {
	beforeStart := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	fx := newChallengeFixture(t, beforeStart)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusPreRegistration))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)
	require.Equal(t, challenge.StatePreRegistered, rec.State)

	fx.svc.now = func() time.Time { return testStart.Add(time.Hour) }
	require.NoError(t, fx.svc.SweepUserChallenges(context.Background(), "u1"))

	stored, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateInProgress, stored.State)
}

func TestActiveChallengesIncludeCompletedUntilWindowEnds(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	_, err = fx.svc.LogProgress(context.Background(), *rec, 3)
	require.NoError(t, err)

	active, err := fx.svc.GetActiveChallengesForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, active, 1, "a completed record stays visible until the window closes")
	assert.Equal(t, challenge.StateCompleted, active[0].State)

	fx.svc.now = func() time.Time { return testEnd.AddDate(0, 0, 2) }
	active, err = fx.svc.GetActiveChallengesForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGetAllChallengeParticipantsEnriches(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	_, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)
	_, err = fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u2", 0)
	require.NoError(t, err)

	participants, err := fx.svc.GetAllChallengeParticipants(context.Background(), def.Name)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	for _, p := range participants {
		assert.Equal(t, "pax-"+p.UserID, p.F3Name)
	}
}

func TestGetLeaderboardPinsSelf(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	r1, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)
	r2, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u2", 0)
	require.NoError(t, err)

	_, err = fx.svc.LogProgress(context.Background(), *r1, 1)
	require.NoError(t, err)
	_, err = fx.svc.LogProgress(context.Background(), *r2, 2)
	require.NoError(t, err)

	lb, err := fx.svc.GetLeaderboard(context.Background(), def.Name, "u1")
	require.NoError(t, err)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, "u1", lb.Entries[0].UserID, "viewer pinned first despite lower score")
	assert.Equal(t, "u2", lb.Entries[1].UserID)
}

func TestReportActivityFeedsActiveChallenges(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	burpees := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	miles := burpeeDefinition(challenge.StatusStarted)
	miles.Name = "100 Mile Challenge"
	miles.Type = challenge.TypeUserSelectedGoal
	miles.Requirements = challenge.CompletionRequirements{GoalOptions: []float64{50, 100}}
	fx.addDefinition(t, miles)

	murph := burpeeDefinition(challenge.StatusStarted)
	murph.Name = "Murph PR"
	murph.Type = challenge.TypeBestAttempt
	murph.Requirements = challenge.CompletionRequirements{}
	fx.addDefinition(t, murph)

	br, err := fx.svc.JoinOrPreRegister(context.Background(), burpees.ID, "u1", 0)
	require.NoError(t, err)
	mr, err := fx.svc.JoinOrPreRegister(context.Background(), miles.ID, "u1", 50)
	require.NoError(t, err)
	pr, err := fx.svc.JoinOrPreRegister(context.Background(), murph.ID, "u1", 0)
	require.NoError(t, err)

	require.NoError(t, fx.svc.ReportActivity(context.Background(), "u1", 1, 3.5))

	stored, err := fx.records.GetByID(context.Background(), br.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ActiveCompletions)

	stored, err = fx.records.GetByID(context.Background(), mr.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, stored.CurrentValue)

	stored, err = fx.records.GetByID(context.Background(), pr.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), stored.BestAttempt, "best-attempt records only move through explicit attempt updates")
}

func TestOpenedCampaignBecomesJoinable(t *testing.T) {
	beforeStart := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	fx := newChallengeFixture(t, beforeStart)

	defService := NewChallengeDefinitionService(fx.defs)
	defService.now = func() time.Time { return beforeStart }

	created, err := defService.Create(context.Background(), &challenge.CreateDefinitionRequest{
		Name:                 "300 Burpee Challenge",
		ChallengeType:        challenge.TypeIterativeCompletions,
		StartDate:            "03/01/2026",
		EndDate:              "03/31/2026",
		LastRegistrationDate: "03/15/2026",
		Requirements:         challenge.CompletionRequirements{TotalCompletionsRequired: 3},
	})
	require.NoError(t, err)
	require.Equal(t, challenge.StatusDraft, created.Status)

	// A draft is invisible and unjoinable, even with its id in hand.
	active, err := defService.GetActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = fx.svc.JoinOrPreRegister(context.Background(), created.ID, "u1", 0)
	assert.ErrorContains(t, err, "not open")

	// The sweep never publishes drafts on its own.
	defService.now = func() time.Time { return testStart.AddDate(0, 0, 9) }
	require.NoError(t, defService.SweepStatuses(context.Background()))
	got, err := defService.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusDraft, got.Status)

	opened, err := defService.Open(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusPreRegistration, opened.Status)

	active, err = defService.GetActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), created.ID, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatePreRegistered, rec.State)
}

func TestOpenRejectsNonDrafts(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	defService := NewChallengeDefinitionService(fx.defs)
	_, err := defService.Open(context.Background(), def.ID)
	assert.ErrorContains(t, err, "already open")

	_, err = defService.Open(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestManualCompleteRequiresPredicate(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := fx.addDefinition(t, burpeeDefinition(challenge.StatusStarted))

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	// Zero progress: completing by hand must be rejected, with no badge
	// and no state change.
	_, err = fx.svc.CompleteChallenge(context.Background(), *rec)
	assert.ErrorContains(t, err, "not finished")
	assert.Empty(t, fx.awarder.awards)

	stored, err := fx.records.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateNotStarted, stored.State)

	// Once the requirement is met, completion goes through.
	cur := *stored
	cur, err = fx.svc.LogProgress(context.Background(), cur, 3)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, cur.State)
}

func TestManualCompleteBestAttempt(t *testing.T) {
	fx := newChallengeFixture(t, midWindow)
	def := burpeeDefinition(challenge.StatusStarted)
	def.Name = "Murph Prep"
	def.Type = challenge.TypeBestAttempt
	def.Requirements = challenge.CompletionRequirements{}
	fx.addDefinition(t, def)

	rec, err := fx.svc.JoinOrPreRegister(context.Background(), def.ID, "u1", 0)
	require.NoError(t, err)

	// Best-attempt challenges have no predicate; manual completion is the
	// only way they finish.
	completed, err := fx.svc.CompleteChallenge(context.Background(), *rec)
	require.NoError(t, err)
	assert.Equal(t, challenge.StateCompleted, completed.State)
	assert.Equal(t, []string{"Murph Ready:u1"}, fx.awarder.awards)
}

func TestDefinitionStatusSweep(t *testing.T) {
	store := newFakeDefinitionStore()
	svc := NewChallengeDefinitionService(store)

	pre := burpeeDefinition(challenge.StatusPreRegistration)
	id, err := store.Create(context.Background(), pre)
	require.NoError(t, err)

	svc.now = func() time.Time { return testStart.Add(time.Hour) }
	require.NoError(t, svc.SweepStatuses(context.Background()))

	got, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusStarted, got.Status)

	// Past the window: started moves to completed; a second pass is a no-op.
	svc.now = func() time.Time { return testEnd.AddDate(0, 0, 1) }
	require.NoError(t, svc.SweepStatuses(context.Background()))
	require.NoError(t, svc.SweepStatuses(context.Background()))

	got, err = store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusCompleted, got.Status)
}
