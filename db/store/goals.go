package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, is_completed, created_at, updated_at`

func scanGoal(row pgx.Row) (Goal, error) {
	var g Goal
	var id, userID pgtype.UUID
	var target, current pgtype.Numeric
	var deadline pgtype.Date
	if err := row.Scan(&id, &userID, &g.Name, &target, &current, &deadline, &g.IsCompleted, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return Goal{}, err
	}
	g.ID = uuid.UUID(id.Bytes)
	g.UserID = uuid.UUID(userID.Bytes)
	g.TargetAmount = decimalFromNumeric(target)
	g.CurrentAmount = decimalFromNumeric(current)
	g.Deadline = datePtr(deadline)
	return g, nil
}

func (q *Queries) ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = $1
		ORDER BY is_completed, deadline NULLS LAST, created_at`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

type GetGoalParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetGoal(ctx context.Context, arg GetGoalParams) (Goal, error) {
	row := q.db.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	return scanGoal(row)
}

type CreateGoalParams struct {
	UserID        uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	IsCompleted   bool
}

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (Goal, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+goalColumns,
		pgUUID(arg.UserID), arg.Name, pgNumeric(arg.TargetAmount), pgNumeric(arg.CurrentAmount),
		pgDatePtr(arg.Deadline), arg.IsCompleted,
	)
	return scanGoal(row)
}

type UpdateGoalParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	IsCompleted   bool
}

// UpdateGoal overwrites every mutable column; contributions use it too.
func (q *Queries) UpdateGoal(ctx context.Context, arg UpdateGoalParams) (Goal, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE goals
		SET name = $3, target_amount = $4, current_amount = $5, deadline = $6, is_completed = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING `+goalColumns,
		pgUUID(arg.ID), pgUUID(arg.UserID), arg.Name, pgNumeric(arg.TargetAmount), pgNumeric(arg.CurrentAmount),
		pgDatePtr(arg.Deadline), arg.IsCompleted,
	)
	return scanGoal(row)
}

type DeleteGoalParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteGoal(ctx context.Context, arg DeleteGoalParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
