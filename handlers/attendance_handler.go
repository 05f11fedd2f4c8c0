package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ironPaxAPI/internal/attendance"
	"ironPaxAPI/middleware"
	"ironPaxAPI/services"

	"github.com/gorilla/mux"
)

type AttendanceHandler struct {
	attendanceService *services.AttendanceService
	userService       *services.UserService
}

func NewAttendanceHandler(attendanceService *services.AttendanceService, userService *services.UserService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		userService:       userService,
	}
}

func (h *AttendanceHandler) PostAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	var req attendance.PostAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.attendanceService.PostAttendance(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, a)
}

func (h *AttendanceHandler) RemoveAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	if err := h.attendanceService.RemoveAttendance(ctx, userID, mux.Vars(r)["beatdownId"]); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Attendance removed"})
}

func (h *AttendanceHandler) GetBeatdownAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.attendanceService.GetAttendanceForBeatdown(ctx, mux.Vars(r)["beatdownId"])
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load attendance")
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (h *AttendanceHandler) LogWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	var req attendance.LogWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wl, err := h.attendanceService.LogWorkout(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, wl)
}

func (h *AttendanceHandler) GetMyWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := h.resolveUserID(ctx, w)
	if !ok {
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	logs, err := h.attendanceService.GetWorkoutsForUser(ctx, userID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load workouts")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *AttendanceHandler) resolveUserID(ctx context.Context, w http.ResponseWriter) (string, bool) {
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
