package model

import (
	"time"

	"github.com/google/uuid"
)

// UsersKey is the durable store key holding the account registry.
const UsersKey = "nl_users"

// Account is a registered storefront customer.
// Exactly one of Email and Username is set.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Matches reports whether the normalized identifier names this account.
func (a Account) Matches(identifier string) bool {
	if identifier == "" {
		return false
	}
	return a.Email == identifier || a.Username == identifier
}
