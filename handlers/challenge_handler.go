package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ironPaxAPI/internal/challenge"
	"ironPaxAPI/middleware"
	"ironPaxAPI/services"

	"github.com/gorilla/mux"
)

type ChallengeHandler struct {
	challengeService  *services.ChallengeService
	definitionService *services.ChallengeDefinitionService
	userService       *services.UserService
}

func NewChallengeHandler(
	challengeService *services.ChallengeService,
	definitionService *services.ChallengeDefinitionService,
	userService *services.UserService,
) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:  challengeService,
		definitionService: definitionService,
		userService:       userService,
	}
}

// GetActiveChallenges lists campaigns open for registration or underway.
// Loading this view doubles as the campaign status sweep.
func (h *ChallengeHandler) GetActiveChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.definitionService.SweepStatuses(ctx); err != nil {
		log.Printf("GetActiveChallenges: status sweep failed: %v", err)
	}

	defs, err := h.definitionService.GetActive(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, defs)
}

func (h *ChallengeHandler) GetCompletedChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	defs, err := h.definitionService.GetCompleted(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, defs)
}

func (h *ChallengeHandler) GetChallengeByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	def, err := h.definitionService.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenge")
		return
	}
	if def == nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, def)
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	var req challenge.CreateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	def, err := h.definitionService.Create(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, def)
}

func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	def, err := h.definitionService.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenge")
		return
	}
	if def == nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	var req challenge.CreateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := req.ToDefinition()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated.ID = def.ID
	updated.Status = def.Status

	if err := h.definitionService.Update(ctx, updated); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// OpenChallenge publishes a draft campaign for registration.
func (h *ChallengeHandler) OpenChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	def, err := h.definitionService.Open(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, def)
}

func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, w) {
		return
	}

	if err := h.definitionService.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Challenge deleted"})
}

// JoinChallenge creates the caller's participation record for a campaign.
func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	var req challenge.JoinChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.challengeService.JoinOrPreRegister(ctx, mux.Vars(r)["id"], userID, req.Goal)
	if err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, rec)
}

// GetMyChallenges returns the caller's in-play records. Loading this view
// runs the cleanup sweep first, so expired records show as failed and
// pre-registered records flip once their campaign starts.
func (h *ChallengeHandler) GetMyChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	if err := h.challengeService.SweepUserChallenges(ctx, userID); err != nil {
		log.Printf("GetMyChallenges: cleanup sweep failed: %v", err)
	}

	recs, err := h.challengeService.GetActiveChallengesForUser(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenges")
		return
	}
	if recs == nil {
		recs = []challenge.Record{}
	}

	respondWithJSON(w, http.StatusOK, recs)
}

// LogProgress reports a delta against the caller's record for a challenge.
func (h *ChallengeHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.loadOwnRecord(ctx, w, r)
	if !ok {
		return
	}

	var req challenge.LogProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.challengeService.LogProgress(ctx, *rec, req.Delta)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// UpdateAttempt replaces a best-attempt record's value if the new attempt
// beats the stored one.
func (h *ChallengeHandler) UpdateAttempt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.loadOwnRecord(ctx, w, r)
	if !ok {
		return
	}
	if rec.Type != challenge.TypeBestAttempt {
		respondWithError(w, http.StatusBadRequest, "Challenge does not take attempts")
		return
	}

	var req challenge.UpdateAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.challengeService.LogProgress(ctx, *rec, req.Attempt)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// CompleteChallenge is the manual completion path for best-attempt
// challenges, which have no automatic completion predicate.
func (h *ChallengeHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.loadOwnRecord(ctx, w, r)
	if !ok {
		return
	}

	updated, err := h.challengeService.CompleteChallenge(ctx, *rec)
	if err != nil {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// Withdraw hard-deletes the caller's record. The client confirms intent
// before calling.
func (h *ChallengeHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, ok := h.loadOwnRecord(ctx, w, r)
	if !ok {
		return
	}

	if err := h.challengeService.WithdrawUserFromChallenge(ctx, *rec); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Withdrawn from challenge"})
}

// GetParticipants renders the full roster for a challenge, any state.
// Loading it sweeps every participant record first.
func (h *ChallengeHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	name := mux.Vars(r)["name"]

	if err := h.challengeService.SweepChallengeParticipants(ctx, name); err != nil {
		log.Printf("GetParticipants: cleanup sweep failed: %v", err)
	}

	participants, err := h.challengeService.GetAllChallengeParticipants(ctx, name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load participants")
		return
	}
	if participants == nil {
		participants = []challenge.Participant{}
	}

	respondWithJSON(w, http.StatusOK, participants)
}

func (h *ChallengeHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	lb, err := h.challengeService.GetLeaderboard(ctx, mux.Vars(r)["name"], userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, lb)
}

// resolveUserID maps the authenticated Clerk id to the internal user id.
func (h *ChallengeHandler) resolveUserID(ctx context.Context, w http.ResponseWriter) (string, bool) {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return "", false
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return "", false
	}
	return u.ID, true
}

// loadOwnRecord resolves the caller and loads their record for the named
// challenge.
func (h *ChallengeHandler) loadOwnRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) (*challenge.Record, bool) {
	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return nil, false
	}

	rec, err := h.challengeService.GetUserChallengeData(ctx, userID, mux.Vars(r)["name"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenge record")
		return nil, false
	}
	if rec == nil {
		respondWithError(w, http.StatusNotFound, "No record for this challenge")
		return nil, false
	}
	return rec, true
}

func (h *ChallengeHandler) requireAdmin(ctx context.Context, w http.ResponseWriter) bool {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return false
	}

	u, err := h.userService.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return false
	}
	if !u.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}
