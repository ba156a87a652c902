package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the challenge engine. Services return these (usually
// wrapped with fmt.Errorf("...: %w", err) for context) and handlers translate
// them to HTTP statuses with HTTPStatus.
var (
	// Validation: client sent something out of range. Never retried.
	ErrInvalidGoalTime = errors.New("app goal time is outside the allowed range")
	ErrInvalidPeriod   = errors.New("challenge period must be one of 7, 14, 20 or 30 days")
	ErrInvalidStatus   = errors.New("invalid daily record status")
	ErrMissingAppCode  = errors.New("app code is required")

	// Conflict: the row already exists.
	ErrDuplicateApp = errors.New("app is already registered for this challenge")

	// Not found.
	ErrUserNotFound       = errors.New("user not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrAppNotFound        = errors.New("app not found for this challenge")
	ErrNoCurrentChallenge = errors.New("user has no current challenge")
	ErrDayRecordNotFound  = errors.New("daily record not found")

	// Terminal state of a finished challenge, not an integrity problem.
	ErrNoActiveDay = errors.New("challenge period has elapsed, no active day")

	// The injected clock reads a date before the challenge started.
	ErrClockSkew = errors.New("current date is before the challenge start date")

	// The current-challenge pointer references a missing challenge row.
	// This is a broken invariant, not a user-facing not-found.
	ErrDataIntegrity = errors.New("current challenge pointer references a missing challenge")
)

// HTTPStatus maps an engine error to the response status the handlers use.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidGoalTime),
		errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrMissingAppCode),
		errors.Is(err, ErrClockSkew):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateApp):
		return http.StatusConflict
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrChallengeNotFound),
		errors.Is(err, ErrAppNotFound),
		errors.Is(err, ErrNoCurrentChallenge),
		errors.Is(err, ErrDayRecordNotFound),
		errors.Is(err, ErrNoActiveDay):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
