package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type UserCreateInput struct {
	Username     string
	PasswordHash string
	Role         string
	CustomerID   *int64
}

type UserPatchInput struct {
	PasswordHash *string
	Role         *string
	CustomerID   *int64
}

const userColumns = `id, username, password_hash, role, customer_id, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CustomerID, &u.CreatedAt)
	return u, err
}

func (r *Repository) CreateUser(ctx context.Context, input UserCreateInput) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, customer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		input.Username, input.PasswordHash, input.Role, input.CustomerID,
	)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", mapPgError(err))
	}
	return user, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *Repository) PatchUser(ctx context.Context, id int64, input UserPatchInput) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch user tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user for patch: %w", err)
	}

	if input.PasswordHash != nil {
		user.PasswordHash = *input.PasswordHash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.CustomerID != nil {
		user.CustomerID = input.CustomerID
	}

	row = tx.QueryRow(ctx, `
		UPDATE users
		SET password_hash = $2, role = $3, customer_id = $4
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.PasswordHash, user.Role, user.CustomerID,
	)
	updated, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("patch user %d: %w", id, mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch user tx: %w", err)
	}
	return &updated, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// DeactivateUser copies the user's identity fields into inactive_accounts
// and deletes the user row, in one transaction. The email comes from the
// linked customer when there is one. Orders and sales keep their history
// (user_id is set NULL by the FK); sessions are removed by the cascade.
func (r *Repository) DeactivateUser(ctx context.Context, id int64) (*domain.InactiveAccount, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin deactivate tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user for deactivate: %w", err)
	}

	email := ""
	if user.CustomerID != nil {
		var customerEmail *string
		if err := tx.QueryRow(ctx,
			"SELECT email FROM customers WHERE id = $1",
			*user.CustomerID,
		).Scan(&customerEmail); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("load customer email for deactivate: %w", err)
		}
		if customerEmail != nil {
			email = *customerEmail
		}
	}

	account := domain.InactiveAccount{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO inactive_accounts (user_id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING deactivated_at
	`, account.UserID, account.Username, account.Email, account.PasswordHash, account.Role,
	).Scan(&account.DeactivatedAt); err != nil {
		return nil, fmt.Errorf("insert inactive account: %w", mapPgError(err))
	}

	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit deactivate tx: %w", err)
	}
	return &account, nil
}

func (r *Repository) CreateSession(ctx context.Context, session domain.Session) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		return fmt.Errorf("create session: %w", mapPgError(err))
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
