package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"screenPledgeAPI/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var migrateOnce sync.Once

// setupTestDB connects to the test database, applies migrations and wipes
// the tables. Tests that need Postgres are skipped when TEST_DATABASE_URL
// is not set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	migrateOnce.Do(func() {
		if err := database.Migrate(dbURL); err != nil {
			t.Fatalf("Failed to migrate test database: %v", err)
		}
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	_, err = pool.Exec(ctx, `TRUNCATE users, challenges, challenge_apps, daily_records RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Failed to reset test tables")

	t.Cleanup(pool.Close)
	return pool
}

// createTestUser inserts a bare user row and returns its id.
func createTestUser(t *testing.T, pool *pgxpool.Pool, clerkID string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (clerk_id, email, username)
		VALUES ($1, $2, $3)
		RETURNING id`,
		clerkID, clerkID+"@example.com", "user_"+clerkID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// fakeClock lets tests move "today" by whole days.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestServices wires the service stack against the given pool and clock.
func newTestServices(pool *pgxpool.Pool, clock *fakeClock) (*ChallengeService, *AppGoalService, *DailyRecordService) {
	goals := NewAppGoalService(pool)
	records := NewDailyRecordService(pool, clock)
	challenges := NewChallengeService(pool, goals, records, clock)
	return challenges, goals, records
}
