// ABOUTME: Table tests for the authorization decision matrix
// ABOUTME: Exercises every action class against diner, franchise admin, and global admin

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/store"
)

var (
	diner = &auth.Identity{UserID: "diner-1", Roles: []store.Role{store.RoleDiner}}
	admin = &auth.Identity{UserID: "admin-1", Roles: []store.Role{store.RoleAdmin}}
	// franchisee administers franchise-1 but holds no global admin role
	franchisee = &auth.Identity{UserID: "franchisee-1", Roles: []store.Role{store.RoleDiner, store.RoleFranchisee}}
)

func franchiseOne() Resource {
	return FranchiseResource([]string{"franchisee-1"})
}

func storeUnderFranchiseOne() Resource {
	return StoreResource([]string{"franchisee-1"})
}

func TestAllowed_UserUpdate(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		target   Resource
		want     bool
	}{
		{name: "self update allowed", identity: diner, target: UserResource("diner-1"), want: true},
		{name: "other user denied", identity: diner, target: UserResource("someone-else"), want: false},
		{name: "admin may update anyone", identity: admin, target: UserResource("diner-1"), want: true},
		{name: "franchisee role grants nothing on users", identity: franchisee, target: UserResource("diner-1"), want: false},
		{name: "nil identity denied", identity: nil, target: UserResource("diner-1"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.identity, ActionUserUpdate, tt.target))
		})
	}
}

func TestAllowed_FranchiseLifecycle(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		action   Action
		want     bool
	}{
		{name: "admin creates franchise", identity: admin, action: ActionFranchiseCreate, want: true},
		{name: "diner cannot create franchise", identity: diner, action: ActionFranchiseCreate, want: false},
		{name: "franchise admin cannot create franchise", identity: franchisee, action: ActionFranchiseCreate, want: false},
		{name: "admin deletes franchise", identity: admin, action: ActionFranchiseDelete, want: true},
		{name: "diner cannot delete franchise", identity: diner, action: ActionFranchiseDelete, want: false},
		// Listed franchise admins may manage stores but never delete the franchise itself
		{name: "franchise admin cannot delete own franchise", identity: franchisee, action: ActionFranchiseDelete, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.identity, tt.action, franchiseOne()))
		})
	}
}

func TestAllowed_StoreLifecycle(t *testing.T) {
	tests := []struct {
		name     string
		identity *auth.Identity
		action   Action
		want     bool
	}{
		{name: "admin creates store", identity: admin, action: ActionStoreCreate, want: true},
		{name: "franchise admin creates store", identity: franchisee, action: ActionStoreCreate, want: true},
		{name: "diner cannot create store", identity: diner, action: ActionStoreCreate, want: false},
		{name: "admin deletes store", identity: admin, action: ActionStoreDelete, want: true},
		{name: "franchise admin deletes store", identity: franchisee, action: ActionStoreDelete, want: true},
		{name: "diner cannot delete store", identity: diner, action: ActionStoreDelete, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.identity, tt.action, storeUnderFranchiseOne()))
		})
	}
}

func TestAllowed_StoreUnderOtherFranchise(t *testing.T) {
	otherFranchise := StoreResource([]string{"someone-else"})
	assert.False(t, Allowed(franchisee, ActionStoreCreate, otherFranchise),
		"franchise admin privileges must not extend to other franchises")
}

func TestAllowed_MenuItemCreate(t *testing.T) {
	menu := MenuResource()
	assert.True(t, Allowed(admin, ActionMenuItemCreate, menu))
	assert.False(t, Allowed(diner, ActionMenuItemCreate, menu))
	assert.False(t, Allowed(franchisee, ActionMenuItemCreate, menu))
}

func TestAllowed_OrderCreate(t *testing.T) {
	assert.True(t, Allowed(diner, ActionOrderCreate, OrderResource()))
	assert.True(t, Allowed(admin, ActionOrderCreate, OrderResource()))
	assert.False(t, Allowed(nil, ActionOrderCreate, OrderResource()))
}

func TestAllowed_UnknownAction(t *testing.T) {
	assert.False(t, Allowed(admin, Action("bogus"), OrderResource()))
}

func TestAllowed_AdminAndFranchiseeCombined(t *testing.T) {
	// A user who is both global admin and listed franchise admin gets the
	// union of both privileges
	both := &auth.Identity{UserID: "franchisee-1", Roles: []store.Role{store.RoleAdmin, store.RoleFranchisee}}
	assert.True(t, Allowed(both, ActionFranchiseDelete, franchiseOne()))
	assert.True(t, Allowed(both, ActionStoreCreate, storeUnderFranchiseOne()))
}
