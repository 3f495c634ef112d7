package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const reminderColumns = `id, user_id, title, amount, due_date, category_id, is_paid, paid_at, transaction_id, created_at, updated_at`

func scanReminder(row pgx.Row) (Reminder, error) {
	var r Reminder
	var id, userID, categoryID, transactionID pgtype.UUID
	var amount pgtype.Numeric
	var paidAt pgtype.Timestamp
	if err := row.Scan(&id, &userID, &r.Title, &amount, &r.DueDate, &categoryID, &r.IsPaid, &paidAt, &transactionID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Reminder{}, err
	}
	r.ID = uuid.UUID(id.Bytes)
	r.UserID = uuid.UUID(userID.Bytes)
	r.Amount = decimalPtr(amount)
	r.CategoryID = uuidPtr(categoryID)
	r.PaidAt = timestampPtr(paidAt)
	r.TransactionID = uuidPtr(transactionID)
	return r, nil
}

const (
	ReminderStatusPending = "pending"
	ReminderStatusPaid    = "paid"
)

type ListRemindersParams struct {
	UserID uuid.UUID
	// Status is "pending", "paid" or empty for all.
	Status string
}

func (q *Queries) ListReminders(ctx context.Context, arg ListRemindersParams) ([]Reminder, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE user_id = $1
		  AND ($2::text = '' OR ($2::text = 'paid') = is_paid)
		ORDER BY due_date, created_at`,
		pgUUID(arg.UserID), arg.Status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]Reminder, 0)
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

type GetReminderParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetReminder(ctx context.Context, arg GetReminderParams) (Reminder, error) {
	row := q.db.QueryRow(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	return scanReminder(row)
}

type CreateReminderParams struct {
	UserID     uuid.UUID
	Title      string
	Amount     *decimal.Decimal
	DueDate    time.Time
	CategoryID *uuid.UUID
}

func (q *Queries) CreateReminder(ctx context.Context, arg CreateReminderParams) (Reminder, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO reminders (user_id, title, amount, due_date, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reminderColumns,
		pgUUID(arg.UserID), arg.Title, pgNumericPtr(arg.Amount), pgDate(arg.DueDate), pgUUIDPtr(arg.CategoryID),
	)
	return scanReminder(row)
}

type MarkReminderPaidParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	PaidAt        time.Time
	TransactionID *uuid.UUID
}

func (q *Queries) MarkReminderPaid(ctx context.Context, arg MarkReminderPaidParams) (Reminder, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE reminders
		SET is_paid = TRUE, paid_at = $3, transaction_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING `+reminderColumns,
		pgUUID(arg.ID), pgUUID(arg.UserID), pgtype.Timestamp{Time: arg.PaidAt, Valid: true}, pgUUIDPtr(arg.TransactionID),
	)
	return scanReminder(row)
}

type DeleteReminderParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteReminder(ctx context.Context, arg DeleteReminderParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM reminders WHERE id = $1 AND user_id = $2`,
		pgUUID(arg.ID), pgUUID(arg.UserID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
