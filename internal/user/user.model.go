package user

import "time"

type User struct {
	ID                 int64     `json:"id"`
	ClerkID            string    `json:"clerkId"`
	Email              string    `json:"email"`
	Username           string    `json:"username"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	EmailVerified      bool      `json:"emailVerified"`
	CurrentChallengeID *int64    `json:"currentChallengeId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
