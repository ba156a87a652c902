package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenPledgeAPI/internal/apperrors"
)

func TestBuildDailyRecords(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 14, 37, 12, 0, time.UTC)
	ch := &Challenge{
		ID:        42,
		UserID:    7,
		Period:    7,
		GoalTime:  120,
		CreatedAt: createdAt,
	}

	records := BuildDailyRecords(ch)

	require.Len(t, records, 7)
	for i, rec := range records {
		assert.Equal(t, int64(42), rec.ChallengeID)
		assert.Equal(t, int64(7), rec.UserID)
		assert.Equal(t, int64(120), rec.GoalTime)
		assert.Equal(t, StatusNone, rec.Status)

		wantDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		assert.True(t, rec.ChallengeDate.Equal(wantDate), "day %d: got %v want %v", i, rec.ChallengeDate, wantDate)
	}
}

func TestBuildDailyRecordsContiguousAcrossMonthBoundary(t *testing.T) {
	ch := &Challenge{
		ID:        1,
		UserID:    1,
		Period:    14,
		GoalTime:  60,
		CreatedAt: time.Date(2026, 1, 25, 23, 59, 59, 0, time.UTC),
	}

	records := BuildDailyRecords(ch)

	require.Len(t, records, 14)
	seen := make(map[string]bool)
	for i := 1; i < len(records); i++ {
		prev := records[i-1].ChallengeDate
		cur := records[i].ChallengeDate
		assert.Equal(t, 24*time.Hour, cur.Sub(prev), "gap between day %d and %d", i-1, i)
		seen[cur.Format("2006-01-02")] = true
	}
	seen[records[0].ChallengeDate.Format("2006-01-02")] = true
	assert.Len(t, seen, 14, "dates must be unique")
	assert.Equal(t, "2026-02-07", records[13].ChallengeDate.Format("2006-01-02"))
}

func TestTodayIndex(t *testing.T) {
	createdAt := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		today   time.Time
		period  int
		want    int
		wantErr error
	}{
		{
			name:   "creation day is index zero",
			today:  time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC),
			period: 7,
			want:   0,
		},
		{
			name:   "second day",
			today:  time.Date(2026, 5, 2, 0, 0, 1, 0, time.UTC),
			period: 7,
			want:   1,
		},
		{
			name:   "last day of the period",
			today:  time.Date(2026, 5, 7, 12, 0, 0, 0, time.UTC),
			period: 7,
			want:   6,
		},
		{
			name:   "period elapsed returns sentinel",
			today:  time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC),
			period: 7,
			want:   CompletedIndex,
		},
		{
			name:   "long after the period still sentinel",
			today:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			period: 7,
			want:   CompletedIndex,
		},
		{
			name:    "clock before creation is an error, not index zero",
			today:   time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC),
			period:  7,
			wantErr: apperrors.ErrClockSkew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TodayIndex(createdAt, tt.period, tt.today)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTodayIndexMonotonicAsClockAdvances(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	period := 30

	prev := -1
	for day := 0; day < period+5; day++ {
		today := createdAt.AddDate(0, 0, day)
		idx, err := TodayIndex(createdAt, period, today)
		require.NoError(t, err)

		if day < period {
			assert.Equal(t, day, idx)
			assert.GreaterOrEqual(t, idx, prev)
			prev = idx
		} else {
			assert.Equal(t, CompletedIndex, idx)
		}
	}
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []int{7, 14, 20, 30} {
		assert.True(t, ValidPeriod(p), "period %d", p)
	}
	for _, p := range []int{0, -7, 1, 6, 8, 15, 21, 29, 31, 365} {
		assert.False(t, ValidPeriod(p), "period %d", p)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusNone))
	assert.True(t, ValidStatus(StatusSuccess))
	assert.True(t, ValidStatus(StatusFailure))
	assert.False(t, ValidStatus(Status("DONE")))
	assert.False(t, ValidStatus(Status("")))
}
