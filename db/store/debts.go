package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const debtColumns = `id, user_id, name, creditor, total_amount, remaining_amount, interest_rate, due_date, created_at, updated_at`

func scanDebt(row pgx.Row) (Debt, error) {
	var d Debt
	var id, userID pgtype.UUID
	var total, remaining, rate pgtype.Numeric
	var dueDate pgtype.Date
	if err := row.Scan(&id, &userID, &d.Name, &d.Creditor, &total, &remaining, &rate, &dueDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return Debt{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.UserID = uuid.UUID(userID.Bytes)
	d.TotalAmount = decimalFromNumeric(total)
	d.RemainingAmount = decimalFromNumeric(remaining)
	d.InterestRate = decimalPtr(rate)
	d.DueDate = datePtr(dueDate)
	return d, nil
}

func (q *Queries) ListDebts(ctx context.Context, userID uuid.UUID) ([]Debt, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE user_id = $1
		ORDER BY due_date NULLS LAST, created_at`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := make([]Debt, 0)
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

type GetDebtParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetDebt(ctx context.Context, arg GetDebtParams) (Debt, error) {
	row := q.db.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	return scanDebt(row)
}

type CreateDebtParams struct {
	UserID          uuid.UUID
	Name            string
	Creditor        string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	InterestRate    *decimal.Decimal
	DueDate         *time.Time
}

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (Debt, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO debts (user_id, name, creditor, total_amount, remaining_amount, interest_rate, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+debtColumns,
		pgUUID(arg.UserID), arg.Name, arg.Creditor, pgNumeric(arg.TotalAmount), pgNumeric(arg.RemainingAmount),
		pgNumericPtr(arg.InterestRate), pgDatePtr(arg.DueDate),
	)
	return scanDebt(row)
}

type UpdateDebtParams struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Creditor        string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	InterestRate    *decimal.Decimal
	DueDate         *time.Time
}

func (q *Queries) UpdateDebt(ctx context.Context, arg UpdateDebtParams) (Debt, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE debts
		SET name = $3, creditor = $4, total_amount = $5, remaining_amount = $6, interest_rate = $7,
			due_date = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING `+debtColumns,
		pgUUID(arg.ID), pgUUID(arg.UserID), arg.Name, arg.Creditor, pgNumeric(arg.TotalAmount),
		pgNumeric(arg.RemainingAmount), pgNumericPtr(arg.InterestRate), pgDatePtr(arg.DueDate),
	)
	return scanDebt(row)
}

type DeleteDebtParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteDebt(ctx context.Context, arg DeleteDebtParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM debts WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
