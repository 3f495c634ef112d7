package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const categoryColumns = `id, name, type, color, icon, is_default, user_id, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	var id, userID pgtype.UUID
	var color, icon pgtype.Text
	if err := row.Scan(&id, &c.Name, &c.Type, &color, &icon, &c.IsDefault, &userID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Category{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.Color = textPtr(color)
	c.Icon = textPtr(icon)
	c.UserID = uuidPtr(userID)
	return c, nil
}

type ListVisibleCategoriesParams struct {
	UserID uuid.UUID
	// Type filters by INCOME or EXPENSE; empty returns both.
	Type string
}

// ListVisibleCategories returns the global defaults plus the user's own categories.
func (q *Queries) ListVisibleCategories(ctx context.Context, arg ListVisibleCategoriesParams) ([]Category, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE (user_id IS NULL OR user_id = $1)
		  AND ($2::text = '' OR type = $2::text)
		ORDER BY is_default DESC, name`,
		pgUUID(arg.UserID), arg.Type,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type GetVisibleCategoryParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetVisibleCategory(ctx context.Context, arg GetVisibleCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`,
		pgUUID(arg.ID), pgUUID(arg.UserID),
	)
	return scanCategory(row)
}

type CreateCategoryParams struct {
	Name   string
	Type   string
	Color  *string
	Icon   *string
	UserID *uuid.UUID
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO categories (name, type, color, icon, is_default, user_id)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING `+categoryColumns,
		arg.Name, arg.Type, pgText(arg.Color), pgText(arg.Icon), pgUUIDPtr(arg.UserID),
	)
	return scanCategory(row)
}

type DeleteCategoryParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// DeleteCategory removes a user-owned, non-default category and reports the affected rows.
func (q *Queries) DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (int64, error) {
	tag, err := q.db.Exec(ctx, `
		DELETE FROM categories
		WHERE id = $1 AND user_id = $2 AND is_default = FALSE`,
		pgUUID(arg.ID), pgUUID(arg.UserID),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
