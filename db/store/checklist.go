package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const checklistItemColumns = `id, name, amount, due_day, category_id, user_id, created_at, updated_at`

func scanChecklistItem(row pgx.Row) (ChecklistItem, error) {
	var item ChecklistItem
	var id, categoryID, userID pgtype.UUID
	var amount pgtype.Numeric
	if err := row.Scan(&id, &item.Name, &amount, &item.DueDay, &categoryID, &userID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return ChecklistItem{}, err
	}
	item.ID = uuid.UUID(id.Bytes)
	item.Amount = decimalFromNumeric(amount)
	item.CategoryID = uuidPtr(categoryID)
	item.UserID = uuidPtr(userID)
	return item, nil
}

// ListVisibleChecklistItems returns items owned by the user or shared globally.
func (q *Queries) ListVisibleChecklistItems(ctx context.Context, userID uuid.UUID) ([]ChecklistItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+checklistItemColumns+`
		FROM checklist_items
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY due_day, name`,
		pgUUID(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ChecklistItem, 0)
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (q *Queries) GetChecklistItem(ctx context.Context, id uuid.UUID) (ChecklistItem, error) {
	row := q.db.QueryRow(ctx, `SELECT `+checklistItemColumns+` FROM checklist_items WHERE id = $1`, pgUUID(id))
	return scanChecklistItem(row)
}

type CreateChecklistItemParams struct {
	Name       string
	Amount     decimal.Decimal
	DueDay     int
	CategoryID *uuid.UUID
	// UserID nil creates a global item.
	UserID *uuid.UUID
}

func (q *Queries) CreateChecklistItem(ctx context.Context, arg CreateChecklistItemParams) (ChecklistItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO checklist_items (name, amount, due_day, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+checklistItemColumns,
		arg.Name, pgNumeric(arg.Amount), arg.DueDay, pgUUIDPtr(arg.CategoryID), pgUUIDPtr(arg.UserID),
	)
	return scanChecklistItem(row)
}

func (q *Queries) DeleteChecklistItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM checklist_items WHERE id = $1`, pgUUID(id))
	return err
}

const checklistCompletionColumns = `id, item_id, user_id, month, year, completed_at`

func scanChecklistCompletion(row pgx.Row) (ChecklistCompletion, error) {
	var c ChecklistCompletion
	var id, itemID, userID pgtype.UUID
	if err := row.Scan(&id, &itemID, &userID, &c.Month, &c.Year, &c.CompletedAt); err != nil {
		return ChecklistCompletion{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.ItemID = uuid.UUID(itemID.Bytes)
	c.UserID = uuid.UUID(userID.Bytes)
	return c, nil
}

type ListChecklistCompletionsParams struct {
	UserID uuid.UUID
	Month  int
	Year   int
}

func (q *Queries) ListChecklistCompletions(ctx context.Context, arg ListChecklistCompletionsParams) ([]ChecklistCompletion, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+checklistCompletionColumns+`
		FROM checklist_completions
		WHERE user_id = $1 AND month = $2 AND year = $3`,
		pgUUID(arg.UserID), arg.Month, arg.Year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]ChecklistCompletion, 0)
	for rows.Next() {
		c, err := scanChecklistCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// ChecklistCompletionKey identifies the unique (item, user, month, year) marker.
type ChecklistCompletionKey struct {
	ItemID uuid.UUID
	UserID uuid.UUID
	Month  int
	Year   int
}

func (q *Queries) GetChecklistCompletion(ctx context.Context, arg ChecklistCompletionKey) (ChecklistCompletion, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+checklistCompletionColumns+`
		FROM checklist_completions
		WHERE item_id = $1 AND user_id = $2 AND month = $3 AND year = $4`,
		pgUUID(arg.ItemID), pgUUID(arg.UserID), arg.Month, arg.Year,
	)
	return scanChecklistCompletion(row)
}

func (q *Queries) CreateChecklistCompletion(ctx context.Context, arg ChecklistCompletionKey) (ChecklistCompletion, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO checklist_completions (item_id, user_id, month, year)
		VALUES ($1, $2, $3, $4)
		RETURNING `+checklistCompletionColumns,
		pgUUID(arg.ItemID), pgUUID(arg.UserID), arg.Month, arg.Year,
	)
	return scanChecklistCompletion(row)
}

func (q *Queries) DeleteChecklistCompletion(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM checklist_completions WHERE id = $1`, pgUUID(id))
	return err
}
