package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/challenge"
	"screenPledgeAPI/internal/user"
)

func TestUserLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	users := NewUserService(pool)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:   "clerk_abc",
		Email:     "abc@example.com",
		Username:  "abc",
		FirstName: "Ab",
		LastName:  "Cd",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.CurrentChallengeID, "fresh user has no current challenge")
	assert.False(t, created.EmailVerified)

	require.NoError(t, users.MarkEmailVerified(ctx, "clerk_abc"))

	fetched, err := users.GetUserByClerkID(ctx, "clerk_abc")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, fetched.EmailVerified)

	updated, err := users.UpdateUserByClerkID(ctx, "clerk_abc", &user.CreateUserRequest{
		Username: "renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "abc@example.com", updated.Email, "empty fields keep stored values")

	require.NoError(t, users.DeleteUserByClerkID(ctx, "clerk_abc"))

	_, err = users.GetUserByClerkID(ctx, "clerk_abc")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = users.DeleteUserByClerkID(ctx, "clerk_abc")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteUserCascadesChallengeData(t *testing.T) {
	pool := setupTestDB(t)
	clock := newFakeClock(testStart())
	challenges, _, _ := newTestServices(pool, clock)
	users := NewUserService(pool)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID: "clerk_cascade",
		Email:   "cascade@example.com",
	})
	require.NoError(t, err)

	_, err = challenges.StartNewChallenge(ctx, created.ID, &challenge.StartChallengeRequest{
		Period:   7,
		GoalTime: 60,
		Apps:     []challenge.AppGoalRequest{{AppCode: "X", GoalTime: 20}},
	}, "iOS")
	require.NoError(t, err)

	require.NoError(t, users.DeleteUserByClerkID(ctx, "clerk_cascade"))

	var challengeCount, appCount, recordCount int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&challengeCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenge_apps`).Scan(&appCount))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_records`).Scan(&recordCount))
	assert.Zero(t, challengeCount)
	assert.Zero(t, appCount)
	assert.Zero(t, recordCount)
}
