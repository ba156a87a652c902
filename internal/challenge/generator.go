package challenge

import (
	"time"

	"screenPledgeAPI/internal/apperrors"
)

// CompletedIndex is returned by TodayIndex once the challenge period has
// elapsed. Callers must treat it as "challenge finished, no active day",
// not as an error.
const CompletedIndex = -1

var allowedPeriods = [...]int{7, 14, 20, 30}

// ValidPeriod reports whether p is one of the offered challenge lengths.
func ValidPeriod(p int) bool {
	for _, v := range allowedPeriods {
		if p == v {
			return true
		}
	}
	return false
}

// dateOf truncates t to its calendar date, renormalized to UTC so that
// subtracting two dates always yields whole 24h multiples.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildDailyRecords materializes the per-day tracking rows for a freshly
// created challenge: exactly ch.Period records, one per consecutive calendar
// day starting at ch.CreatedAt's date, each status NONE with the challenge's
// goal time snapshotted. Pure; the caller persists the result in the same
// transaction as the challenge row.
func BuildDailyRecords(ch *Challenge) []DailyRecord {
	start := dateOf(ch.CreatedAt)
	records := make([]DailyRecord, 0, ch.Period)
	for day := 0; day < ch.Period; day++ {
		records = append(records, DailyRecord{
			ChallengeID:   ch.ID,
			UserID:        ch.UserID,
			GoalTime:      ch.GoalTime,
			Status:        StatusNone,
			ChallengeDate: start.AddDate(0, 0, day),
		})
	}
	return records
}

// TodayIndex computes which day of the challenge today is: 0 on the creation
// date, period-1 on the last day, CompletedIndex once the period has elapsed.
// A clock reading before the creation date is reported as ErrClockSkew rather
// than clamped to 0.
func TodayIndex(createdAt time.Time, period int, today time.Time) (int, error) {
	days := int(dateOf(today).Sub(dateOf(createdAt)).Hours() / 24)
	if days < 0 {
		return 0, apperrors.ErrClockSkew
	}
	if days >= period {
		return CompletedIndex, nil
	}
	return days, nil
}
