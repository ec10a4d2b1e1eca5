// internal/models/common.go
package models

// Provenance event kinds recorded over a product's lifecycle. The event
// field itself is a free-form label; these are the values the services emit.
const (
	EventCreated  = "Created by Artisan"
	EventListed   = "Listed for Sale"
	EventUpdated  = "Product Updated"
	EventSold     = "Sold"
	EventVerified = "Verified"
)

type AdminRole string

const (
	AdminRoleSuper     AdminRole = "super_admin"
	AdminRoleModerator AdminRole = "moderator"
)

// Session roles carried in JWT claims.
const (
	SessionRoleWallet = "wallet"
	SessionRoleAdmin  = "admin"
)
