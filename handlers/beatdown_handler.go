package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ironPaxAPI/internal/beatdown"
	"ironPaxAPI/internal/challenge"
	"ironPaxAPI/internal/user"
	"ironPaxAPI/middleware"
	"ironPaxAPI/services"

	"github.com/gorilla/mux"
)

type BeatdownHandler struct {
	beatdownService *services.BeatdownService
	userService     *services.UserService
}

func NewBeatdownHandler(beatdownService *services.BeatdownService, userService *services.UserService) *BeatdownHandler {
	return &BeatdownHandler{
		beatdownService: beatdownService,
		userService:     userService,
	}
}

// GetSchedule loads beatdowns for a date window, the way calendar views
// page through the schedule. Dates come as MM/DD/YYYY query params; an
// empty window defaults to the coming week.
func (h *BeatdownHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, to, err := parseWindow(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var beatdowns []*beatdown.BeatdownWithAo
	if aoID := r.URL.Query().Get("aoId"); aoID != "" {
		beatdowns, err = h.beatdownService.GetBeatdownsForAo(ctx, aoID, from, to)
	} else {
		beatdowns, err = h.beatdownService.GetBeatdownsInRange(ctx, from, to)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load schedule")
		return
	}

	respondWithJSON(w, http.StatusOK, beatdowns)
}

func (h *BeatdownHandler) GetBeatdown(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.beatdownService.GetBeatdownByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Beatdown not found")
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

func (h *BeatdownHandler) CreateBeatdown(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	var req beatdown.CreateBeatdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.beatdownService.CreateBeatdown(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, b)
}

func (h *BeatdownHandler) UpdateBeatdown(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	var req beatdown.UpdateBeatdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.beatdownService.UpdateBeatdown(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

func (h *BeatdownHandler) DeleteBeatdown(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	if err := h.beatdownService.DeleteBeatdown(ctx, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Beatdown deleted"})
}

func (h *BeatdownHandler) requireSiteLeadership(ctx context.Context, w http.ResponseWriter) bool {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return false
	}

	if _, err := h.userService.RequireRole(ctx, clerkID, user.RoleSiteQ); err != nil {
		respondWithError(w, http.StatusForbidden, "Site leadership access required")
		return false
	}
	return true
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now
	to := now.AddDate(0, 0, 7)

	if s := r.URL.Query().Get("from"); s != "" {
		parsed, err := challenge.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if s := r.URL.Query().Get("to"); s != "" {
		parsed, err := challenge.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
