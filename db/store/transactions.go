package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const transactionColumns = `t.id, t.user_id, t.type, t.amount, t.currency, t.category_id, c.name,
	t.description, t.date, t.is_recurring, t.recurring_pattern, t.metadata, t.receipt_id,
	t.created_at, t.updated_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	var id, userID, categoryID, receiptID pgtype.UUID
	var amount pgtype.Numeric
	var pattern pgtype.Text
	if err := row.Scan(&id, &userID, &t.Type, &amount, &t.Currency, &categoryID, &t.CategoryName,
		&t.Description, &t.Date, &t.IsRecurring, &pattern, &t.Metadata, &receiptID,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.CategoryID = uuid.UUID(categoryID.Bytes)
	t.Amount = decimalFromNumeric(amount)
	t.RecurringPattern = textPtr(pattern)
	t.ReceiptID = uuidPtr(receiptID)
	return t, nil
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	defer rows.Close()
	transactions := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

type ListTransactionsParams struct {
	UserID     uuid.UUID
	Type       string
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	// Limit of zero returns every matching row.
	Limit  int
	Offset int
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	from, to := pgDateRange(arg.From, arg.To)
	var limit pgtype.Int8
	if arg.Limit > 0 {
		limit = pgtype.Int8{Int64: int64(arg.Limit), Valid: true}
	}
	rows, err := q.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		  AND ($2::text = '' OR t.type = $2::text)
		  AND ($3::uuid IS NULL OR t.category_id = $3)
		  AND ($4::date IS NULL OR t.date >= $4)
		  AND ($5::date IS NULL OR t.date <= $5)
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $6 OFFSET $7`,
		pgUUID(arg.UserID), arg.Type, pgUUIDPtr(arg.CategoryID), from, to, limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

type GetTransactionParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetTransaction(ctx context.Context, arg GetTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID),
	)
	return scanTransaction(row)
}

type CreateTransactionParams struct {
	UserID           uuid.UUID
	Type             string
	Amount           decimal.Decimal
	Currency         string
	CategoryID       uuid.UUID
	Description      string
	Date             time.Time
	IsRecurring      bool
	RecurringPattern *string
	Metadata         []byte
	ReceiptID        *uuid.UUID
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, `
		WITH t AS (
			INSERT INTO transactions (user_id, type, amount, currency, category_id, description, date,
				is_recurring, recurring_pattern, metadata, receipt_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING *
		)
		SELECT `+transactionColumns+`
		FROM t
		JOIN categories c ON c.id = t.category_id`,
		pgUUID(arg.UserID), arg.Type, pgNumeric(arg.Amount), arg.Currency, pgUUID(arg.CategoryID),
		arg.Description, pgDate(arg.Date), arg.IsRecurring, pgText(arg.RecurringPattern),
		arg.Metadata, pgUUIDPtr(arg.ReceiptID),
	)
	return scanTransaction(row)
}

type UpdateTransactionParams struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Type             string
	Amount           decimal.Decimal
	Currency         string
	CategoryID       uuid.UUID
	Description      string
	Date             time.Time
	IsRecurring      bool
	RecurringPattern *string
	Metadata         []byte
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, `
		WITH t AS (
			UPDATE transactions
			SET type = $3, amount = $4, currency = $5, category_id = $6, description = $7, date = $8,
				is_recurring = $9, recurring_pattern = $10, metadata = $11, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT `+transactionColumns+`
		FROM t
		JOIN categories c ON c.id = t.category_id`,
		pgUUID(arg.ID), pgUUID(arg.UserID), arg.Type, pgNumeric(arg.Amount), arg.Currency,
		pgUUID(arg.CategoryID), arg.Description, pgDate(arg.Date), arg.IsRecurring,
		pgText(arg.RecurringPattern), arg.Metadata,
	)
	return scanTransaction(row)
}

type DeleteTransactionParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type CountDuplicateTransactionsParams struct {
	UserID      uuid.UUID
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

func (q *Queries) CountDuplicateTransactions(ctx context.Context, arg CountDuplicateTransactionsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND amount = $3 AND date = $4 AND description = $5`,
		pgUUID(arg.UserID), arg.Type, pgNumeric(arg.Amount), pgDate(arg.Date), arg.Description,
	).Scan(&count)
	return count, err
}

type SumTransactionsByTypeParams struct {
	UserID uuid.UUID
	From   *time.Time
	To     *time.Time
}

func (q *Queries) SumTransactionsByType(ctx context.Context, arg SumTransactionsByTypeParams) ([]TypeTotal, error) {
	from, to := pgDateRange(arg.From, arg.To)
	rows, err := q.db.Query(ctx, `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		GROUP BY type
		ORDER BY type`,
		pgUUID(arg.UserID), from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]TypeTotal, 0)
	for rows.Next() {
		var tt TypeTotal
		var total pgtype.Numeric
		if err := rows.Scan(&tt.Type, &total); err != nil {
			return nil, err
		}
		tt.Total = decimalFromNumeric(total)
		totals = append(totals, tt)
	}
	return totals, rows.Err()
}

type SumCategoryTotalsParams struct {
	UserID uuid.UUID
	Type   string
	From   *time.Time
	To     *time.Time
}

// SumCategoryTotals groups amounts of one transaction type by category, largest first.
func (q *Queries) SumCategoryTotals(ctx context.Context, arg SumCategoryTotalsParams) ([]CategoryTotal, error) {
	from, to := pgDateRange(arg.From, arg.To)
	rows, err := q.db.Query(ctx, `
		SELECT c.id, c.name, c.color, COALESCE(SUM(t.amount), 0) AS total, COUNT(t.id)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		  AND t.type = $2
		  AND ($3::date IS NULL OR t.date >= $3)
		  AND ($4::date IS NULL OR t.date <= $4)
		GROUP BY c.id, c.name, c.color
		ORDER BY total DESC, c.name`,
		pgUUID(arg.UserID), arg.Type, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0)
	for rows.Next() {
		var ct CategoryTotal
		var id pgtype.UUID
		var color pgtype.Text
		var total pgtype.Numeric
		if err := rows.Scan(&id, &ct.CategoryName, &color, &total, &ct.Count); err != nil {
			return nil, err
		}
		ct.CategoryID = uuid.UUID(id.Bytes)
		ct.Color = textPtr(color)
		ct.Total = decimalFromNumeric(total)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

type SumCategorySpentParams struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	// From is inclusive and To exclusive.
	From time.Time
	To   time.Time
}

// SumCategorySpent totals the EXPENSE transactions of one category inside [From, To).
func (q *Queries) SumCategorySpent(ctx context.Context, arg SumCategorySpentParams) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'EXPENSE'
		  AND date >= $3 AND date < $4`,
		pgUUID(arg.UserID), pgUUID(arg.CategoryID), pgDate(arg.From), pgDate(arg.To),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return decimalFromNumeric(total), nil
}

type MonthlyTotalsParams struct {
	UserID uuid.UUID
	From   time.Time
}

// MonthlyTotals sums each transaction type per calendar month from From onwards.
func (q *Queries) MonthlyTotals(ctx context.Context, arg MonthlyTotalsParams) ([]MonthlyTotal, error) {
	rows, err := q.db.Query(ctx, `
		SELECT date_trunc('month', date)::date AS month, type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		GROUP BY month, type
		ORDER BY month, type`,
		pgUUID(arg.UserID), pgDate(arg.From),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]MonthlyTotal, 0)
	for rows.Next() {
		var mt MonthlyTotal
		var total pgtype.Numeric
		if err := rows.Scan(&mt.Month, &mt.Type, &total); err != nil {
			return nil, err
		}
		mt.Total = decimalFromNumeric(total)
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}
