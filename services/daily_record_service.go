package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/challenge"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyRecordService persists and reads the per-day tracking rows. Record
// generation itself is the pure challenge.BuildDailyRecords; this service
// only stores its output and resolves "today" against the injected clock.
type DailyRecordService struct {
	db    *pgxpool.Pool
	clock challenge.Clock
}

func NewDailyRecordService(db *pgxpool.Pool, clock challenge.Clock) *DailyRecordService {
	return &DailyRecordService{db: db, clock: clock}
}

// InsertGeneratedTx bulk-inserts freshly generated records inside the
// challenge-creation transaction. Must be called exactly once per challenge.
func (s *DailyRecordService) InsertGeneratedTx(ctx context.Context, tx pgx.Tx, records []challenge.DailyRecord) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"daily_records"},
		[]string{"challenge_id", "user_id", "goal_time", "status", "challenge_date"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ChallengeID, r.UserID, r.GoalTime, string(r.Status), r.ChallengeDate}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert daily records: %w", err)
	}
	return nil
}

// StatusHistory returns every daily status of a challenge in challenge_date
// order, for the progress timeline.
func (s *DailyRecordService) StatusHistory(ctx context.Context, challengeID int64) ([]challenge.Status, error) {
	rows, err := s.db.Query(ctx,
		`SELECT status FROM daily_records WHERE challenge_id = $1 ORDER BY challenge_date`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var statuses []challenge.Status
	for rows.Next() {
		var st challenge.Status
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}

	return statuses, nil
}

// ResolveToday returns the record whose challenge_date is today. Once the
// period has elapsed it fails with ErrNoActiveDay instead of guessing a row.
func (s *DailyRecordService) ResolveToday(ctx context.Context, ch *challenge.Challenge) (*challenge.DailyRecord, error) {
	today, err := s.activeDate(ch)
	if err != nil {
		return nil, err
	}

	rec := &challenge.DailyRecord{}
	err = s.db.QueryRow(ctx, `
		SELECT id, challenge_id, user_id, goal_time, status, challenge_date
		FROM daily_records
		WHERE challenge_id = $1 AND challenge_date = $2`,
		ch.ID, today,
	).Scan(&rec.ID, &rec.ChallengeID, &rec.UserID, &rec.GoalTime, &rec.Status, &rec.ChallengeDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDayRecordNotFound
		}
		return nil, fmt.Errorf("failed to resolve today's record: %w", err)
	}

	return rec, nil
}

// UpdateTodayStatus flips today's record to the given status. This is the
// hook the usage evaluation job calls at the end of a day.
func (s *DailyRecordService) UpdateTodayStatus(ctx context.Context, ch *challenge.Challenge, status challenge.Status) (*challenge.DailyRecord, error) {
	today, err := s.activeDate(ch)
	if err != nil {
		return nil, err
	}

	rec := &challenge.DailyRecord{}
	err = s.db.QueryRow(ctx, `
		UPDATE daily_records SET status = $3
		WHERE challenge_id = $1 AND challenge_date = $2
		RETURNING id, challenge_id, user_id, goal_time, status, challenge_date`,
		ch.ID, today, string(status),
	).Scan(&rec.ID, &rec.ChallengeID, &rec.UserID, &rec.GoalTime, &rec.Status, &rec.ChallengeDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDayRecordNotFound
		}
		return nil, fmt.Errorf("failed to update today's record: %w", err)
	}

	return rec, nil
}

// activeDate validates that the challenge has an active day right now and
// returns that day's date.
func (s *DailyRecordService) activeDate(ch *challenge.Challenge) (time.Time, error) {
	now := s.clock.Now()
	idx, err := challenge.TodayIndex(ch.CreatedAt, ch.Period, now)
	if err != nil {
		return time.Time{}, err
	}
	if idx == challenge.CompletedIndex {
		return time.Time{}, apperrors.ErrNoActiveDay
	}

	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
