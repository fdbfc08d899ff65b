// ABOUTME: User and role store methods backing registration, login and profile updates
// ABOUTME: Users are looked up on every login; roles are loaded with the user record

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddUser inserts a user and its role assignments in a single transaction.
// Returns ErrEmailTaken if the email is already registered.
func (s *SQLiteStore) AddUser(ctx context.Context, user *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	for _, role := range user.Roles {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_roles (user_id, role, created_at)
			VALUES (?, ?, ?)
		`, user.ID, role, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting role: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user insert: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	s.logger.Debug("added user", "user_id", user.ID, "roles", len(user.Roles))
	return nil
}

// GetUser retrieves a user by id, including role assignments.
// Returns ErrNotFound if the user does not exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email, including role assignments.
// Returns ErrNotFound if no account is registered under the email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE ` + where

	var user User
	var createdAtStr, updatedAtStr string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	user.Roles, err = s.listUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser updates a user's email and/or password hash. Empty fields are
// left unchanged. Returns the updated record or ErrNotFound.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id, email, passwordHash string) (*User, error) {
	var sets []string
	var args []any
	if email != "" {
		sets = append(sets, "email = ?")
		args = append(args, email)
	}
	if passwordHash != "" {
		sets = append(sets, "password_hash = ?")
		args = append(args, passwordHash)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC().Format(time.RFC3339))
		args = append(args, id)

		query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			return nil, ErrNotFound
		}

		s.logger.Debug("updated user", "user_id", id)
	}

	return s.GetUser(ctx, id)
}

// AddUserRole assigns a role to a user. Idempotent - assigning an existing
// role succeeds silently.
func (s *SQLiteStore) AddUserRole(ctx context.Context, userID string, role Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_roles (user_id, role, created_at)
		VALUES (?, ?, ?)
	`, userID, role, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("adding role: %w", err)
	}

	s.logger.Debug("added role", "user_id", userID, "role", role)
	return nil
}

// listUserRoles returns the roles assigned to a user, ordered by name.
func (s *SQLiteStore) listUserRoles(ctx context.Context, userID string) ([]Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role FROM user_roles
		WHERE user_id = ?
		ORDER BY role
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		roles = append(roles, Role(role))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roles: %w", err)
	}

	// Return empty slice (not nil) if no roles
	if roles == nil {
		roles = []Role{}
	}

	return roles, nil
}
