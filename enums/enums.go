// Package enums contains enums
package enums

const (
	// SysHealth -> denotes the health status of the system
	SysHealth = "health"
	// SysHealthMsg -> denotes the custom health status message of the system
	SysHealthMsg = "system_message"

	// Auth0 -> used to denote the Auth0 identity provider
	Auth0 = "auth0"

	// RoleUser -> default role assigned to newly registered users
	RoleUser = "user"
	// RoleAdmin -> role assigned to administrative users
	RoleAdmin = "admin"

	// VerificationPending -> wallet verification that is awaiting confirmation
	VerificationPending = "pending"
	// VerificationExpired -> wallet verification that was superseded or timed out
	VerificationExpired = "expired"
)
