package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ironPaxAPI/internal/ao"
	"ironPaxAPI/internal/user"
	"ironPaxAPI/middleware"
	"ironPaxAPI/services"

	"github.com/gorilla/mux"
)

type AoHandler struct {
	aoService   *services.AoService
	userService *services.UserService
}

func NewAoHandler(aoService *services.AoService, userService *services.UserService) *AoHandler {
	return &AoHandler{
		aoService:   aoService,
		userService: userService,
	}
}

func (h *AoHandler) ListAos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	aos, err := h.aoService.ListActiveAos(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load AOs")
		return
	}

	respondWithJSON(w, http.StatusOK, aos)
}

func (h *AoHandler) GetAo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.aoService.GetAoByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "AO not found")
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AoHandler) CreateAo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	var req ao.CreateAoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.aoService.CreateAo(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, a)
}

func (h *AoHandler) UpdateAo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	var req ao.UpdateAoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.aoService.UpdateAo(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AoHandler) DeleteAo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireSiteLeadership(ctx, w) {
		return
	}

	if err := h.aoService.DeleteAo(ctx, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "AO deleted"})
}

// requireSiteLeadership admits admins and site-qs.
func (h *AoHandler) requireSiteLeadership(ctx context.Context, w http.ResponseWriter) bool {
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
