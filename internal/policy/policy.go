// ABOUTME: Pure authorization decision table keyed by action and resource kind
// ABOUTME: Centralizes the role/ownership matrix so routes cannot drift apart

package policy

import (
	"github.com/freshslice/orderd/internal/auth"
)

// Action identifies an operation a caller wants to perform.
type Action string

const (
	ActionUserUpdate      Action = "user.update"
	ActionFranchiseCreate Action = "franchise.create"
	ActionFranchiseDelete Action = "franchise.delete"
	ActionStoreCreate     Action = "store.create"
	ActionStoreDelete     Action = "store.delete"
	ActionMenuItemCreate  Action = "menu.create"
	ActionOrderCreate     Action = "order.create"
)

// ResourceKind identifies the kind of resource an action targets.
type ResourceKind string

const (
	KindUser      ResourceKind = "user"
	KindFranchise ResourceKind = "franchise"
	KindStore     ResourceKind = "store"
	KindMenu      ResourceKind = "menu"
	KindOrder     ResourceKind = "order"
)

// Resource describes an action target: its kind and the user ids that own or
// administer it. Callers build this from storage; the policy itself never
// reads persistent state.
type Resource struct {
	Kind     ResourceKind
	OwnerIDs []string
}

// UserResource describes a user record owned by its own id.
func UserResource(userID string) Resource {
	return Resource{Kind: KindUser, OwnerIDs: []string{userID}}
}

// FranchiseResource describes a franchise with its listed admin user ids.
func FranchiseResource(adminIDs []string) Resource {
	return Resource{Kind: KindFranchise, OwnerIDs: adminIDs}
}

// StoreResource describes a store, administered by its franchise's admins.
func StoreResource(franchiseAdminIDs []string) Resource {
	return Resource{Kind: KindStore, OwnerIDs: franchiseAdminIDs}
}

// MenuResource describes the shared menu. It has no owners; only global
// admins may change it.
func MenuResource() Resource {
	return Resource{Kind: KindMenu}
}

// OrderResource describes an order target. Orders carry no ownership
// restriction at creation time.
func OrderResource() Resource {
	return Resource{Kind: KindOrder}
}

// Allowed decides whether the identity may perform the action on the
// resource. A nil identity is never allowed; unauthenticated reads bypass
// the policy entirely.
func Allowed(identity *auth.Identity, action Action, resource Resource) bool {
	if identity == nil {
		return false
	}

	switch action {
	case ActionUserUpdate:
		// Self-update, or any user when global admin
		return identity.IsAdmin() || isOwner(identity, resource)

	case ActionFranchiseCreate, ActionFranchiseDelete, ActionMenuItemCreate:
		// Franchise-listed admins are deliberately not sufficient for
		// franchise delete; creation and menu changes are admin-only too
		return identity.IsAdmin()

	case ActionStoreCreate, ActionStoreDelete:
		// Global admin, or a user listed as admin of the owning franchise
		return identity.IsAdmin() || isOwner(identity, resource)

	case ActionOrderCreate:
		// Any authenticated identity may order; the order's user id is
		// always stamped from the identity, never client-supplied
		return true

	default:
		return false
	}
}

func isOwner(identity *auth.Identity, resource Resource) bool {
	for _, owner := range resource.OwnerIDs {
		if owner == identity.UserID {
			return true
		}
	}
	return false
}
