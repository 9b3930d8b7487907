package model

import "time"

// Roles recognised by the platform. Travelers book trips, affiliates
// refer them, merchants submit activities and admins moderate everything.
// ADMIN accounts are seeded out of band; registration never produces one.
const (
	RoleUser      = "USER"
	RoleAdmin     = "ADMIN"
	RoleAffiliate = "AFFILIATE"
	RoleMerchant  = "MERCHANT"
)

// User represents a row in the `users` table. The json tags are
// omitted because these structs are used by the repository layer;
// handlers define their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of the Role* constants above.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// ValidRegistrationRole reports whether self-service registration may
// request the given role.
func ValidRegistrationRole(role string) bool {
	switch role {
	case RoleUser, RoleAffiliate, RoleMerchant:
		return true
	}
	return false
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
