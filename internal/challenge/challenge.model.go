package challenge

import "time"

type Status string

const (
	StatusNone    Status = "NONE"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// ValidStatus reports whether s is one of the three known daily statuses.
func ValidStatus(s Status) bool {
	return s == StatusNone || s == StatusSuccess || s == StatusFailure
}

// Challenge is one fixed-period screen time pledge. Immutable after creation;
// app goals and daily records hang off it by challenge id.
type Challenge struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Period    int       `json:"period"`
	GoalTime  int64     `json:"goalTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppGoal is a per-challenge, per-app usage ceiling in minutes. The pair
// (challenge_id, app_code, os) is unique, enforced by the database.
type AppGoal struct {
	ID          int64     `json:"id"`
	ChallengeID int64     `json:"challengeId"`
	AppCode     string    `json:"appCode"`
	GoalTime    int64     `json:"goalTime"`
	OS          string    `json:"os"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DailyRecord is one calendar day of a challenge. Exactly period records
// exist per challenge, one per consecutive date starting at the challenge's
// creation date.
type DailyRecord struct {
	ID            int64     `json:"id"`
	ChallengeID   int64     `json:"challengeId"`
	UserID        int64     `json:"userId"`
	GoalTime      int64     `json:"goalTime"`
	Status        Status    `json:"status"`
	ChallengeDate time.Time `json:"challengeDate"`
}
