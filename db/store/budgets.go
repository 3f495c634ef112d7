package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const budgetColumns = `b.id, b.user_id, b.category_id, c.name, b.amount, b.period, b.start_date, b.created_at, b.updated_at`

func scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	var id, userID, categoryID pgtype.UUID
	var amount pgtype.Numeric
	if err := row.Scan(&id, &userID, &categoryID, &b.CategoryName, &amount, &b.Period, &b.StartDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Budget{}, err
	}
	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.CategoryID = uuid.UUID(categoryID.Bytes)
	b.Amount = decimalFromNumeric(amount)
	return b, nil
}

func (q *Queries) ListBudgets(ctx context.Context, userID uuid.UUID) ([]Budget, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1
		ORDER BY c.name, b.created_at`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

type GetBudgetParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetBudget(ctx context.Context, arg GetBudgetParams) (Budget, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1 AND b.user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID),
	)
	return scanBudget(row)
}

type CreateBudgetParams struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Period     string
	StartDate  time.Time
}

func (q *Queries) CreateBudget(ctx context.Context, arg CreateBudgetParams) (Budget, error) {
	row := q.db.QueryRow(ctx, `
		WITH b AS (
			INSERT INTO budgets (user_id, category_id, amount, period, start_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT `+budgetColumns+`
		FROM b
		JOIN categories c ON c.id = b.category_id`,
		pgUUID(arg.UserID), pgUUID(arg.CategoryID), pgNumeric(arg.Amount), arg.Period, pgDate(arg.StartDate),
	)
	return scanBudget(row)
}

type UpdateBudgetParams struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Period     string
	StartDate  time.Time
}

func (q *Queries) UpdateBudget(ctx context.Context, arg UpdateBudgetParams) (Budget, error) {
	row := q.db.QueryRow(ctx, `
		WITH b AS (
			UPDATE budgets
			SET category_id = $3, amount = $4, period = $5, start_date = $6, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT `+budgetColumns+`
		FROM b
		JOIN categories c ON c.id = b.category_id`,
		pgUUID(arg.ID), pgUUID(arg.UserID), pgUUID(arg.CategoryID), pgNumeric(arg.Amount), arg.Period, pgDate(arg.StartDate),
	)
	return scanBudget(row)
}

type DeleteBudgetParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteBudget(ctx context.Context, arg DeleteBudgetParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
