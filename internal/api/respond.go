// ABOUTME: JSON response helpers and API view types
// ABOUTME: Views keep password hashes and internal fields out of responses

package api

import (
	"encoding/json"
	"net/http"

	"github.com/freshslice/orderd/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// roleView serializes a role assignment as {"role":"diner"}
type roleView struct {
	Role string `json:"role"`
}

// userView is the public shape of a user record; the password hash never
// appears in a response.
type userView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Roles []roleView `json:"roles"`
}

func viewUser(u *store.User) userView {
	roles := make([]roleView, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = roleView{Role: string(r)}
	}
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Roles: roles}
}

type adminView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type storeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type franchiseView struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Admins []adminView `json:"admins"`
	Stores []storeView `json:"stores"`
}

func viewFranchise(f *store.Franchise) franchiseView {
	admins := make([]adminView, len(f.Admins))
	for i, a := range f.Admins {
		admins[i] = adminView{ID: a.UserID, Name: a.Name, Email: a.Email}
	}
	stores := make([]storeView, len(f.Stores))
	for i, ps := range f.Stores {
		stores[i] = storeView{ID: ps.ID, Name: ps.Name}
	}
	return franchiseView{ID: f.ID, Name: f.Name, Admins: admins, Stores: stores}
}

func viewFranchises(franchises []*store.Franchise) []franchiseView {
	views := make([]franchiseView, len(franchises))
	for i, f := range franchises {
		views[i] = viewFranchise(f)
	}
	return views
}

type menuItemView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

func viewMenu(items []*store.MenuItem) []menuItemView {
	views := make([]menuItemView, len(items))
	for i, item := range items {
		views[i] = menuItemView{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Image:       item.Image,
			Price:       item.Price,
		}
	}
	return views
}

type orderItemView struct {
	MenuID      string  `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type orderView struct {
	ID          string          `json:"id,omitempty"`
	FranchiseID string          `json:"franchiseId"`
	StoreID     string          `json:"storeId"`
	Items       []orderItemView `json:"items"`
}

func viewOrder(o *store.Order) orderView {
	items := make([]orderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemView{MenuID: item.MenuID, Description: item.Description, Price: item.Price}
	}
	return orderView{ID: o.ID, FranchiseID: o.FranchiseID, StoreID: o.StoreID, Items: items}
}

func viewOrders(orders []*store.Order) []orderView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = viewOrder(o)
	}
	return views
}
