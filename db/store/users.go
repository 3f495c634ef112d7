package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, name, role, is_active, settings, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var id pgtype.UUID
	var settings []byte
	var passwordHash pgtype.Text
	if err := row.Scan(&id, &u.Email, &u.Name, &u.Role, &u.IsActive, &settings, &passwordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.ID = uuid.UUID(id.Bytes)
	u.PasswordHash = textPtr(passwordHash)
	u.Settings = DefaultUserSettings()
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &u.Settings); err != nil {
			return User{}, fmt.Errorf("decode user settings: %w", err)
		}
	}
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, pgUUID(id))
	return scanUser(row)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

type CreateUserParams struct {
	Email        string
	Name         string
	Role         string
	Settings     UserSettings
	PasswordHash *string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	settings, err := json.Marshal(arg.Settings)
	if err != nil {
		return User{}, fmt.Errorf("encode user settings: %w", err)
	}
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role, settings, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		arg.Email, arg.Name, arg.Role, settings, pgText(arg.PasswordHash),
	)
	return scanUser(row)
}

type UpdateUserSettingsParams struct {
	ID       uuid.UUID
	Settings UserSettings
}

func (q *Queries) UpdateUserSettings(ctx context.Context, arg UpdateUserSettingsParams) (User, error) {
	settings, err := json.Marshal(arg.Settings)
	if err != nil {
		return User{}, fmt.Errorf("encode user settings: %w", err)
	}
	row := q.db.QueryRow(ctx, `
		UPDATE users SET settings = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING `+userColumns,
		pgUUID(arg.ID), settings,
	)
	return scanUser(row)
}

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

type SetUserActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetUserActive(ctx context.Context, arg SetUserActiveParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE users SET is_active = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING `+userColumns,
		pgUUID(arg.ID), arg.IsActive,
	)
	return scanUser(row)
}
