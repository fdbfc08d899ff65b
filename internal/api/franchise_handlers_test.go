// ABOUTME: Tests for the /api/franchise endpoints
// ABOUTME: Exercises the admin-only rules and franchise-admin store management

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createFranchise creates a franchise as an admin, listing the given emails
// as franchise admins.
func (a *testAPI) createFranchise(adminTok, name string, adminEmails ...string) franchiseView {
	a.t.Helper()

	admins := make([]map[string]string, len(adminEmails))
	for i, email := range adminEmails {
		admins[i] = map[string]string{"email": email}
	}

	resp := a.do(http.MethodPost, "/api/franchise", adminTok, map[string]any{
		"name": name, "admins": admins,
	})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var created franchiseView
	decodeBody(a.t, resp, &created)
	return created
}

func TestCreateFranchise(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, _ := a.registerDiner()

	created := a.createFranchise(adminTok, "PizzaPocket", franchisee.Email)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "PizzaPocket", created.Name)
	require.Len(t, created.Admins, 1)
	assert.Equal(t, franchisee.ID, created.Admins[0].ID)
	assert.Equal(t, franchisee.Email, created.Admins[0].Email)
}

func TestCreateFranchise_DinerForbidden(t *testing.T) {
	a := setupAPI(t)
	_, dinerTok := a.registerDiner()

	resp := a.do(http.MethodPost, "/api/franchise", dinerTok, map[string]any{
		"name": "NoPizza",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "unable to create a franchise", body["message"])
}

func TestCreateFranchise_UnknownAdminEmail(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()

	resp := a.do(http.MethodPost, "/api/franchise", adminTok, map[string]any{
		"name":   "GhostPizza",
		"admins": []map[string]string{{"email": "nobody@test.com"}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "unknown user", body["message"])
}

func TestListFranchises_Anonymous(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	a.createFranchise(adminTok, "OpenPizza")

	resp := a.do(http.MethodGet, "/api/franchise", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var franchises []franchiseView
	decodeBody(t, resp, &franchises)
	require.Len(t, franchises, 1)
	assert.Equal(t, "OpenPizza", franchises[0].Name)
}

func TestListUserFranchises(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, franchiseeTok := a.registerDiner()
	a.createFranchise(adminTok, "MyPizza", franchisee.Email)

	resp := a.do(http.MethodGet, "/api/franchise/"+franchisee.ID, franchiseeTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var franchises []franchiseView
	decodeBody(t, resp, &franchises)
	require.Len(t, franchises, 1)
	assert.Equal(t, "MyPizza", franchises[0].Name)
}

func TestListUserFranchises_OtherCallerGetsEmptyList(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, _ := a.registerDiner()
	_, strangerTok := a.registerDiner()
	a.createFranchise(adminTok, "HiddenPizza", franchisee.Email)

	resp := a.do(http.MethodGet, "/api/franchise/"+franchisee.ID, strangerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var franchises []franchiseView
	decodeBody(t, resp, &franchises)
	assert.Empty(t, franchises)
}

func TestDeleteFranchise(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	created := a.createFranchise(adminTok, "DoomedPizza")

	resp := a.do(http.MethodDelete, "/api/franchise/"+created.ID, adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "franchise deleted", body["message"])

	resp = a.do(http.MethodGet, "/api/franchise", "", nil)
	var franchises []franchiseView
	decodeBody(t, resp, &franchises)
	assert.Empty(t, franchises)
}

func TestDeleteFranchise_FranchiseeForbidden(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, franchiseeTok := a.registerDiner()
	created := a.createFranchise(adminTok, "KeptPizza", franchisee.Email)

	// Being listed as a franchise admin does not grant franchise delete
	resp := a.do(http.MethodDelete, "/api/franchise/"+created.ID, franchiseeTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "unable to delete a franchise", body["message"])
}

func TestCreateStore_FranchiseAdmin(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, franchiseeTok := a.registerDiner()
	created := a.createFranchise(adminTok, "StorePizza", franchisee.Email)

	resp := a.do(http.MethodPost, "/api/franchise/"+created.ID+"/store", franchiseeTok, map[string]string{
		"name": "Downtown",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sv storeView
	decodeBody(t, resp, &sv)
	assert.NotEmpty(t, sv.ID)
	assert.Equal(t, "Downtown", sv.Name)
}

func TestCreateStore_DinerForbidden(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	_, dinerTok := a.registerDiner()
	created := a.createFranchise(adminTok, "LockedPizza")

	resp := a.do(http.MethodPost, "/api/franchise/"+created.ID+"/store", dinerTok, map[string]string{
		"name": "Nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "unable to create a store", body["message"])
}

func TestCreateStore_UnknownFranchise(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()

	resp := a.do(http.MethodPost, "/api/franchise/no-such-id/store", adminTok, map[string]string{
		"name": "Orphan",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteStore(t *testing.T) {
	a := setupAPI(t)
	_, adminTok := a.createAdmin()
	franchisee, franchiseeTok := a.registerDiner()
	created := a.createFranchise(adminTok, "ShrinkingPizza", franchisee.Email)

	resp := a.do(http.MethodPost, "/api/franchise/"+created.ID+"/store", franchiseeTok, map[string]string{
		"name": "Closing Soon",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sv storeView
	decodeBody(t, resp, &sv)

	resp = a.do(http.MethodDelete, "/api/franchise/"+created.ID+"/store/"+sv.ID, franchiseeTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "store deleted", body["message"])
}
