package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/challenge"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChallengeService orchestrates the challenge lifecycle: starting a new
// challenge (with app-goal carryover and daily record generation in one
// transaction), resolving a user's current challenge, app edits on it, and
// the administrative bulk expiry.
type ChallengeService struct {
	db      *pgxpool.Pool
	goals   *AppGoalService
	records *DailyRecordService
	clock   challenge.Clock
}

func NewChallengeService(db *pgxpool.Pool, goals *AppGoalService, records *DailyRecordService, clock challenge.Clock) *ChallengeService {
	return &ChallengeService{
		db:      db,
		goals:   goals,
		records: records,
		clock:   clock,
	}
}

// StartNewChallenge creates and activates a challenge for the user:
//
//  1. locks the user row and reads the current-challenge pointer
//  2. inserts the new challenge
//  3. carries over the previous challenge's app goals, or inserts the
//     caller's initial apps on a first-ever challenge
//  4. bulk-generates the period's daily records
//  5. flips the pointer to the new challenge
//
// All five steps commit or roll back together. The FOR UPDATE lock on the
// user row serializes concurrent starts for the same user.
func (s *ChallengeService) StartNewChallenge(ctx context.Context, userID int64, req *challenge.StartChallengeRequest, os string) (*challenge.Challenge, error) {
	if !challenge.ValidPeriod(req.Period) {
		return nil, fmt.Errorf("period %d: %w", req.Period, apperrors.ErrInvalidPeriod)
	}
	if req.GoalTime <= 0 {
		return nil, fmt.Errorf("challenge goal time %d: %w", req.GoalTime, apperrors.ErrInvalidGoalTime)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var previousID *int64
	err = tx.QueryRow(ctx,
		`SELECT current_challenge_id FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&previousID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	newChallenge := &challenge.Challenge{
		UserID:    userID,
		Period:    req.Period,
		GoalTime:  req.GoalTime,
		CreatedAt: s.clock.Now(),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO challenges (user_id, period, goal_time, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		newChallenge.UserID, newChallenge.Period, newChallenge.GoalTime, newChallenge.CreatedAt,
	).Scan(&newChallenge.ID, &newChallenge.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert challenge: %w", err)
	}

	if previousID != nil {
		if _, err := s.goals.CarryOverTx(ctx, tx, *previousID, newChallenge); err != nil {
			return nil, err
		}
	} else if len(req.Apps) > 0 {
		if _, err := s.goals.AddGoalsTx(ctx, tx, newChallenge, req.Apps, os); err != nil {
			return nil, err
		}
	}

	records := challenge.BuildDailyRecords(newChallenge)
	if err := s.records.InsertGeneratedTx(ctx, tx, records); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET current_challenge_id = $1, updated_at = NOW() WHERE id = $2`,
		newChallenge.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update current challenge pointer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit new challenge: %w", err)
	}

	return newChallenge, nil
}

// GetCurrentChallenge resolves the user's current challenge via the pointer.
// A pointer that references a missing challenge row is a broken invariant and
// surfaces as ErrDataIntegrity, not as an ordinary not-found.
func (s *ChallengeService) GetCurrentChallenge(ctx context.Context, userID int64) (*challenge.Challenge, error) {
	var currentID *int64
	err := s.db.QueryRow(ctx,
		`SELECT current_challenge_id FROM users WHERE id = $1`,
		userID,
	).Scan(&currentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if currentID == nil {
		return nil, apperrors.ErrNoCurrentChallenge
	}

	ch, err := s.getChallenge(ctx, *currentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChallengeNotFound) {
			log.Printf("DATA INTEGRITY: user %d current_challenge_id %d references a missing challenge", userID, *currentID)
			return nil, apperrors.ErrDataIntegrity
		}
		return nil, err
	}
	return ch, nil
}

// GetChallengeView assembles the full current-challenge response: period,
// start date, goal time, today's index and the ordered status timeline plus
// the tracked app list.
func (s *ChallengeService) GetChallengeView(ctx context.Context, userID int64) (*challenge.ChallengeResponse, error) {
	ch, err := s.GetCurrentChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}

	todayIndex, err := challenge.TodayIndex(ch.CreatedAt, ch.Period, s.clock.Now())
	if err != nil {
		return nil, err
	}

	statuses, err := s.records.StatusHistory(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.ListGoals(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	return &challenge.ChallengeResponse{
		Period:     ch.Period,
		StartDate:  ch.CreatedAt.Format("2006-01-02"),
		GoalTime:   ch.GoalTime,
		TodayIndex: todayIndex,
		Statuses:   statuses,
		Apps:       toAppResponses(goals),
	}, nil
}

// GetHomeView assembles the today view: today's status with the challenge's
// goal time and app list. Fails with ErrNoActiveDay on an elapsed challenge.
func (s *ChallengeService) GetHomeView(ctx context.Context, userID int64) (*challenge.HomeResponse, error) {
	ch, err := s.GetCurrentChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}

	today, err := s.records.ResolveToday(ctx, ch)
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.ListGoals(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	return &challenge.HomeResponse{
		Status:   today.Status,
		GoalTime: ch.GoalTime,
		Apps:     toAppResponses(goals),
	}, nil
}

// UpdateTodayStatus marks today's record of the user's current challenge as
// succeeded or failed.
func (s *ChallengeService) UpdateTodayStatus(ctx context.Context, userID int64, status challenge.Status) (*challenge.DailyRecord, error) {
	if !challenge.ValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, apperrors.ErrInvalidStatus)
	}

	ch, err := s.GetCurrentChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.records.UpdateTodayStatus(ctx, ch, status)
}

// AddAppsToCurrentChallenge adds app goals to the user's live challenge, so
// edits never land on a stale one.
func (s *ChallengeService) AddAppsToCurrentChallenge(ctx context.Context, userID int64, requests []challenge.AppGoalRequest, os string) ([]challenge.AppGoal, error) {
	ch, err := s.GetCurrentChallenge(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.goals.AddGoals(ctx, ch, requests, os)
}

// RemoveAppFromCurrentChallenge removes one app goal from the user's live
// challenge. A challenge may legally end up tracking zero apps.
func (s *ChallengeService) RemoveAppFromCurrentChallenge(ctx context.Context, userID int64, appCode, os string) error {
	ch, err := s.GetCurrentChallenge(ctx, userID)
	if err != nil {
		return err
	}
	return s.goals.RemoveGoal(ctx, ch, appCode, os)
}

// ExpireAndDeleteForUsers bulk-deletes every challenge of the given users;
// app goals and daily records cascade, and the users' pointers reset to null
// through the schema. Idempotent: absent rows are a no-op.
func (s *ChallengeService) ExpireAndDeleteForUsers(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM challenges WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return fmt.Errorf("failed to delete challenges for users: %w", err)
	}

	log.Printf("Expired %d challenges for %d users", tag.RowsAffected(), len(userIDs))
	return nil
}

func (s *ChallengeService) getChallenge(ctx context.Context, challengeID int64) (*challenge.Challenge, error) {
	ch := &challenge.Challenge{}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, period, goal_time, created_at
		FROM challenges
		WHERE id = $1`,
		challengeID,
	).Scan(&ch.ID, &ch.UserID, &ch.Period, &ch.GoalTime, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	return ch, nil
}

func toAppResponses(goals []challenge.AppGoal) []challenge.AppGoalResponse {
	apps := make([]challenge.AppGoalResponse, 0, len(goals))
	for _, g := range goals {
		apps = append(apps, challenge.AppGoalResponse{AppCode: g.AppCode, GoalTime: g.GoalTime})
	}
	return apps
}
