package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/challenge"
	"screenPledgeAPI/middleware"
	"screenPledgeAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	userService      *services.UserService
}

func NewChallengeHandler(challengeService *services.ChallengeService, userService *services.UserService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		userService:      userService,
	}
}

// StartChallenge creates and activates a new challenge for the caller.
// Requires the OS header; on a repeat challenge the previous challenge's
// apps are carried over and the request's apps are ignored.
func (h *ChallengeHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	os, ok := requireOSHeader(w, r)
	if !ok {
		return
	}

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	var req challenge.StartChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.challengeService.StartNewChallenge(ctx, userID, &req, os)
	if err != nil {
		log.Printf("StartChallenge: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	middleware.CountChallengeStarted()
	respondWithJSON(w, http.StatusCreated, created)
}

// GetChallenge returns the full current-challenge view with the status
// timeline and today's index.
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	view, err := h.challengeService.GetChallengeView(ctx, userID)
	if err != nil {
		log.Printf("GetChallenge: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// GetHome returns today's status with the goal time and tracked apps.
func (h *ChallengeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	view, err := h.challengeService.GetHomeView(ctx, userID)
	if err != nil {
		log.Printf("GetHome: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// UpdateTodayStatus marks today's record SUCCESS or FAILURE.
func (h *ChallengeHandler) UpdateTodayStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	var req challenge.UpdateTodayStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.challengeService.UpdateTodayStatus(ctx, userID, req.Status)
	if err != nil {
		log.Printf("UpdateTodayStatus: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// AddApps adds app goals to the caller's current challenge.
func (h *ChallengeHandler) AddApps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, ok := requireOSHeader(w, r)
	if !ok {
		return
	}

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	var reqs []challenge.AppGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(reqs) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one app is required")
		return
	}

	goals, err := h.challengeService.AddAppsToCurrentChallenge(ctx, userID, reqs, os)
	if err != nil {
		log.Printf("AddApps: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, goals)
}

// RemoveApp deletes one app goal from the caller's current challenge.
func (h *ChallengeHandler) RemoveApp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, ok := requireOSHeader(w, r)
	if !ok {
		return
	}

	userID, ok := resolveUserID(ctx, h.userService, w)
	if !ok {
		return
	}

	var req challenge.AppRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.challengeService.RemoveAppFromCurrentChallenge(ctx, userID, req.AppCode, os); err != nil {
		log.Printf("RemoveApp: user %d: %v", userID, err)
		respondWithError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "App removed"})
}

func requireOSHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	os := r.Header.Get("OS")
	if os == "" {
		respondWithError(w, http.StatusBadRequest, "OS header is required")
		return "", false
	}
	return os, true
}
