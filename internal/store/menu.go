// ABOUTME: Menu item persistence for the pizza menu
// ABOUTME: The menu is readable anonymously; additions are admin-gated upstream

package store

import (
	"context"
	"fmt"
	"time"
)

// AddMenuItem inserts a menu item and returns the full menu.
func (s *SQLiteStore) AddMenuItem(ctx context.Context, item *MenuItem) ([]*MenuItem, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, title, description, image, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Description, item.Image, item.Price, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting menu item: %w", err)
	}

	item.CreatedAt = now

	s.logger.Info("added menu item", "menu_id", item.ID, "title", item.Title)
	return s.ListMenu(ctx)
}

// ListMenu returns all menu items in insertion order. Returns an empty slice
// if the menu is empty.
func (s *SQLiteStore) ListMenu(ctx context.Context) ([]*MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, image, price, created_at
		FROM menu_items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing menu: %w", err)
	}
	defer rows.Close()

	items := []*MenuItem{}
	for rows.Next() {
		var item MenuItem
		var createdAtStr string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		item.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu: %w", err)
	}

	return items, nil
}
