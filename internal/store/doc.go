// Package store provides persistent storage for orderd using SQLite.
//
// # Data Models
//
//   - User: Registered account with bcrypt password hash and role assignments
//   - Session: Active bearer token, keyed strictly by token
//   - Franchise: Franchise with admin user list and stores
//   - PizzaStore: Physical store under a franchise
//   - MenuItem: Orderable pizza on the menu
//   - Order: Placed order with line items, stamped with the acting user's id
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created automatically on startup.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrEmailTaken: Registration email already in use
//
// All methods accept context.Context. Store failures surface to callers
// unretried; the auth core treats them as fatal to the current request.
package store
