package services

import (
	"context"
	"fmt"

	"screenPledgeAPI/internal/apperrors"
	"screenPledgeAPI/internal/challenge"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AppGoalService owns the per-challenge app goal rows: bound validation,
// duplicate rejection and CRUD. The (challenge_id, app_code, os) uniqueness
// is double-checked here and enforced for real by the database constraint,
// which closes the race between concurrent inserts.
type AppGoalService struct {
	db          *pgxpool.Pool
	minGoalTime int64
	maxGoalTime int64
}

func NewAppGoalService(db *pgxpool.Pool) *AppGoalService {
	return &AppGoalService{
		db:          db,
		minGoalTime: envInt64("MIN_APP_GOAL_TIME_MIN", 1),
		maxGoalTime: envInt64("MAX_APP_GOAL_TIME_MIN", 360),
	}
}

// AddGoals validates and inserts a batch of app goals for a challenge.
// The batch is atomic: either every request lands or none do.
func (s *AppGoalService) AddGoals(ctx context.Context, ch *challenge.Challenge, requests []challenge.AppGoalRequest, os string) ([]challenge.AppGoal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	goals, err := s.AddGoalsTx(ctx, tx, ch, requests, os)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit app goals: %w", err)
	}
	return goals, nil
}

// AddGoalsTx is AddGoals running inside the caller's transaction, used by
// challenge creation so app inserts roll back with everything else.
func (s *AppGoalService) AddGoalsTx(ctx context.Context, q querier, ch *challenge.Challenge, requests []challenge.AppGoalRequest, os string) ([]challenge.AppGoal, error) {
	seen := make(map[string]bool, len(requests))
	for _, req := range requests {
		if req.AppCode == "" {
			return nil, apperrors.ErrMissingAppCode
		}
		if err := s.validateGoalTime(req.GoalTime); err != nil {
			return nil, fmt.Errorf("app %q: %w", req.AppCode, err)
		}
		if seen[req.AppCode] {
			return nil, fmt.Errorf("app %q: %w", req.AppCode, apperrors.ErrDuplicateApp)
		}
		seen[req.AppCode] = true

		var exists bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM challenge_apps WHERE challenge_id = $1 AND app_code = $2 AND os = $3)`,
			ch.ID, req.AppCode, os,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing app goal: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("app %q: %w", req.AppCode, apperrors.ErrDuplicateApp)
		}
	}

	goals := make([]challenge.AppGoal, 0, len(requests))
	for _, req := range requests {
		goal := challenge.AppGoal{
			ChallengeID: ch.ID,
			AppCode:     req.AppCode,
			GoalTime:    req.GoalTime,
			OS:          os,
		}
		err := q.QueryRow(ctx, `
			INSERT INTO challenge_apps (challenge_id, app_code, goal_time, os)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			goal.ChallengeID, goal.AppCode, goal.GoalTime, goal.OS,
		).Scan(&goal.ID, &goal.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("app %q: %w", req.AppCode, apperrors.ErrDuplicateApp)
			}
			return nil, fmt.Errorf("failed to insert app goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

// CarryOverTx value-copies every app goal of a previous challenge into new
// rows under the new challenge, preserving each goal's appCode, goalTime and
// os tag. The old rows stay untouched as the previous challenge's history.
func (s *AppGoalService) CarryOverTx(ctx context.Context, q querier, fromChallengeID int64, to *challenge.Challenge) ([]challenge.AppGoal, error) {
	previous, err := s.ListGoalsTx(ctx, q, fromChallengeID)
	if err != nil {
		return nil, err
	}

	goals := make([]challenge.AppGoal, 0, len(previous))
	for _, prev := range previous {
		goal := challenge.AppGoal{
			ChallengeID: to.ID,
			AppCode:     prev.AppCode,
			GoalTime:    prev.GoalTime,
			OS:          prev.OS,
		}
		err := q.QueryRow(ctx, `
			INSERT INTO challenge_apps (challenge_id, app_code, goal_time, os)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			goal.ChallengeID, goal.AppCode, goal.GoalTime, goal.OS,
		).Scan(&goal.ID, &goal.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("app %q: %w", prev.AppCode, apperrors.ErrDuplicateApp)
			}
			return nil, fmt.Errorf("failed to carry over app goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

// RemoveGoal deletes the unique (challenge, appCode, os) goal row.
func (s *AppGoalService) RemoveGoal(ctx context.Context, ch *challenge.Challenge, appCode, os string) error {
	if appCode == "" {
		return apperrors.ErrMissingAppCode
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM challenge_apps WHERE challenge_id = $1 AND app_code = $2 AND os = $3`,
		ch.ID, appCode, os,
	)
	if err != nil {
		return fmt.Errorf("failed to delete app goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("app %q: %w", appCode, apperrors.ErrAppNotFound)
	}
	return nil
}

// ListGoals returns all goals of a challenge in insertion order.
func (s *AppGoalService) ListGoals(ctx context.Context, challengeID int64) ([]challenge.AppGoal, error) {
	return s.ListGoalsTx(ctx, s.db, challengeID)
}

func (s *AppGoalService) ListGoalsTx(ctx context.Context, q querier, challengeID int64) ([]challenge.AppGoal, error) {
	rows, err := q.Query(ctx, `
		SELECT id, challenge_id, app_code, goal_time, os, created_at
		FROM challenge_apps
		WHERE challenge_id = $1
		ORDER BY id`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list app goals: %w", err)
	}
	defer rows.Close()

	var goals []challenge.AppGoal
	for rows.Next() {
		var g challenge.AppGoal
		if err := rows.Scan(&g.ID, &g.ChallengeID, &g.AppCode, &g.GoalTime, &g.OS, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan app goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read app goals: %w", err)
	}

	return goals, nil
}

func (s *AppGoalService) validateGoalTime(goalTime int64) error {
	if goalTime < s.minGoalTime || goalTime > s.maxGoalTime {
		return apperrors.ErrInvalidGoalTime
	}
	return nil
}
