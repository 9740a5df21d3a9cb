package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique identifiers for accounts and tracking cookies.
type IDGenerator interface {
	NewID() (uuid.UUID, error)
}

// PasswordHasher derives and checks password digests.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encoded string) (bool, error)
}

// Navigator moves the tab to another page.
type Navigator interface {
	NavigateTo(url string)
}

// Display is a live view refreshed after every state change.
type Display interface {
	Refresh(ctx context.Context)
}
