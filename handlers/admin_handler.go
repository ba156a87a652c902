package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"screenPledgeAPI/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AdminHandler struct {
	challengeService *services.ChallengeService
}

func NewAdminHandler(challengeService *services.ChallengeService) *AdminHandler {
	return &AdminHandler{
		challengeService: challengeService,
	}
}

type adminLoginRequest struct {
	AuthCode string `json:"authCode"`
}

type expireUsersRequest struct {
	UserIDs []int64 `json:"userIds"`
}

// Login exchanges the operator auth code for a short-lived admin token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	authCode := os.Getenv("ADMIN_AUTH_CODE")
	if authCode == "" {
		log.Println("ADMIN_AUTH_CODE is not set, admin login disabled")
		respondWithError(w, http.StatusServiceUnavailable, "Admin login is disabled")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.AuthCode), []byte(authCode)) != 1 {
		respondWithError(w, http.StatusUnauthorized, "Invalid auth code")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(12 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("ADMIN_JWT_SECRET")))
	if err != nil {
		log.Printf("Admin login: failed to sign token: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// ExpireUsers bulk-deletes every challenge of the listed users. Running it
// twice is a no-op the second time.
func (h *AdminHandler) ExpireUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req expireUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.UserIDs) == 0 {
		respondWithError(w, http.StatusBadRequest, "userIds is required")
		return
	}

	if err := h.challengeService.ExpireAndDeleteForUsers(ctx, req.UserIDs); err != nil {
		log.Printf("ExpireUsers: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to expire users")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Challenges expired and deleted"})
}
