// Package api exposes the HTTP surface of the ordering service: credential
// endpoints under /api/auth, franchise and store management under
// /api/franchise, and the menu and order endpoints under /api/order.
//
// Handlers hold no business rules of their own. Authentication is delegated
// to the auth gate middleware, access decisions to the policy package, and
// persistence to the store. The handlers' job is translating those outcomes
// into stable JSON bodies and status codes.
package api
