// ABOUTME: Franchise and store entity persistence with admin list management
// ABOUTME: Franchise admin rows drive store-level authorization decisions

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateFranchise inserts a franchise and its admin list in a single
// transaction. Admin user ids must already be resolved by the caller.
// Each listed admin is also granted the franchisee role.
func (s *SQLiteStore) CreateFranchise(ctx context.Context, franchise *Franchise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO franchises (id, name, created_at)
		VALUES (?, ?, ?)
	`, franchise.ID, franchise.Name, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting franchise: %w", err)
	}

	for _, admin := range franchise.Admins {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO franchise_admins (franchise_id, user_id, created_at)
			VALUES (?, ?, ?)
		`, franchise.ID, admin.UserID, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting franchise admin: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO user_roles (user_id, role, created_at)
			VALUES (?, ?, ?)
		`, admin.UserID, RoleFranchisee, now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("granting franchisee role: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing franchise insert: %w", err)
	}

	franchise.CreatedAt = now

	s.logger.Info("created franchise", "franchise_id", franchise.ID, "name", franchise.Name)
	return nil
}

// GetFranchise retrieves a franchise by id with its admin list and stores.
// Returns ErrNotFound if the franchise does not exist.
func (s *SQLiteStore) GetFranchise(ctx context.Context, id string) (*Franchise, error) {
	var franchise Franchise
	var createdAtStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM franchises WHERE id = ?
	`, id).Scan(&franchise.ID, &franchise.Name, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying franchise: %w", err)
	}

	franchise.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if err := s.loadFranchiseDetails(ctx, &franchise); err != nil {
		return nil, err
	}

	return &franchise, nil
}

// ListFranchises returns all franchises with admins and stores loaded.
// Returns an empty slice if none exist.
func (s *SQLiteStore) ListFranchises(ctx context.Context) ([]*Franchise, error) {
	return s.listFranchises(ctx, `
		SELECT id, name, created_at FROM franchises ORDER BY name
	`)
}

// ListUserFranchises returns the franchises the given user administers.
// Returns an empty slice if the user administers none.
func (s *SQLiteStore) ListUserFranchises(ctx context.Context, userID string) ([]*Franchise, error) {
	return s.listFranchises(ctx, `
		SELECT f.id, f.name, f.created_at
		FROM franchises f
		JOIN franchise_admins fa ON fa.franchise_id = f.id
		WHERE fa.user_id = ?
		ORDER BY f.name
	`, userID)
}

func (s *SQLiteStore) listFranchises(ctx context.Context, query string, args ...any) ([]*Franchise, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing franchises: %w", err)
	}
	defer rows.Close()

	franchises := []*Franchise{}
	for rows.Next() {
		var franchise Franchise
		var createdAtStr string
		if err := rows.Scan(&franchise.ID, &franchise.Name, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning franchise: %w", err)
		}
		franchise.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		franchises = append(franchises, &franchise)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating franchises: %w", err)
	}

	for _, franchise := range franchises {
		if err := s.loadFranchiseDetails(ctx, franchise); err != nil {
			return nil, err
		}
	}

	return franchises, nil
}

// loadFranchiseDetails populates the admin list and stores of a franchise.
func (s *SQLiteStore) loadFranchiseDetails(ctx context.Context, franchise *Franchise) error {
	adminRows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM franchise_admins fa
		JOIN users u ON u.id = fa.user_id
		WHERE fa.franchise_id = ?
		ORDER BY u.name
	`, franchise.ID)
	if err != nil {
		return fmt.Errorf("listing franchise admins: %w", err)
	}
	defer adminRows.Close()

	franchise.Admins = []FranchiseAdmin{}
	for adminRows.Next() {
		var admin FranchiseAdmin
		if err := adminRows.Scan(&admin.UserID, &admin.Name, &admin.Email); err != nil {
			return fmt.Errorf("scanning franchise admin: %w", err)
		}
		franchise.Admins = append(franchise.Admins, admin)
	}
	if err := adminRows.Err(); err != nil {
		return fmt.Errorf("iterating franchise admins: %w", err)
	}

	storeRows, err := s.db.QueryContext(ctx, `
		SELECT id, franchise_id, name, created_at
		FROM stores
		WHERE franchise_id = ?
		ORDER BY name
	`, franchise.ID)
	if err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}
	defer storeRows.Close()

	franchise.Stores = []PizzaStore{}
	for storeRows.Next() {
		var ps PizzaStore
		var createdAtStr string
		if err := storeRows.Scan(&ps.ID, &ps.FranchiseID, &ps.Name, &createdAtStr); err != nil {
			return fmt.Errorf("scanning store: %w", err)
		}
		ps.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return fmt.Errorf("parsing created_at: %w", err)
		}
		franchise.Stores = append(franchise.Stores, ps)
	}
	if err := storeRows.Err(); err != nil {
		return fmt.Errorf("iterating stores: %w", err)
	}

	return nil
}

// DeleteFranchise removes a franchise. Admin rows and stores are removed by
// cascade. Returns ErrNotFound if the franchise does not exist.
func (s *SQLiteStore) DeleteFranchise(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM franchises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting franchise: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted franchise", "franchise_id", id)
	return nil
}

// CreateStore inserts a store under a franchise. Returns ErrNotFound if the
// franchise does not exist.
func (s *SQLiteStore) CreateStore(ctx context.Context, ps *PizzaStore) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM franchises WHERE id = ?`, ps.FranchiseID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking franchise: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stores (id, franchise_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, ps.ID, ps.FranchiseID, ps.Name, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting store: %w", err)
	}

	ps.CreatedAt = now

	s.logger.Info("created store", "store_id", ps.ID, "franchise_id", ps.FranchiseID)
	return nil
}

// DeleteStore removes a store under a franchise. Returns ErrNotFound if no
// such store exists under the franchise.
func (s *SQLiteStore) DeleteStore(ctx context.Context, franchiseID, storeID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM stores WHERE id = ? AND franchise_id = ?
	`, storeID, franchiseID)
	if err != nil {
		return fmt.Errorf("deleting store: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted store", "store_id", storeID, "franchise_id", franchiseID)
	return nil
}
