package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidGoalTime, http.StatusBadRequest},
		{ErrInvalidPeriod, http.StatusBadRequest},
		{ErrInvalidStatus, http.StatusBadRequest},
		{ErrMissingAppCode, http.StatusBadRequest},
		{ErrClockSkew, http.StatusBadRequest},
		{ErrDuplicateApp, http.StatusConflict},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrChallengeNotFound, http.StatusNotFound},
		{ErrAppNotFound, http.StatusNotFound},
		{ErrNoCurrentChallenge, http.StatusNotFound},
		{ErrNoActiveDay, http.StatusNotFound},
		{ErrDataIntegrity, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error %v", tt.err)
	}
}

func TestHTTPStatusSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("app %q: %w", "youtube", ErrDuplicateApp)
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))

	deep := fmt.Errorf("add goals: %w", wrapped)
	assert.Equal(t, http.StatusConflict, HTTPStatus(deep))
}
