// ABOUTME: Order persistence recording placed orders and their line items
// ABOUTME: Orders are always stamped with the acting user's id

package store

import (
	"context"
	"fmt"
	"time"
)

// CreateOrder inserts an order and its items in a single transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, franchise_id, store_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, order.ID, order.UserID, order.FranchiseID, order.StoreID, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_id, description, price)
			VALUES (?, ?, ?, ?)
		`, order.ID, item.MenuID, item.Description, item.Price)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order insert: %w", err)
	}

	order.CreatedAt = now

	s.logger.Info("created order", "order_id", order.ID, "user_id", order.UserID, "items", len(order.Items))
	return nil
}

// ListUserOrders returns the orders placed by a user, most recent first.
// Returns an empty slice if the user has no orders.
func (s *SQLiteStore) ListUserOrders(ctx context.Context, userID string) ([]*Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, franchise_id, store_id, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		var order Order
		var createdAtStr string
		if err := rows.Scan(&order.ID, &order.UserID, &order.FranchiseID, &order.StoreID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		order.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	for _, order := range orders {
		order.Items, err = s.listOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (s *SQLiteStore) listOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT menu_id, description, price
		FROM order_items
		WHERE order_id = ?
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}

	return items, nil
}
