package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SessionKey is the tab store key of the active session.
	SessionKey = "nl_session"
	// PendingCheckoutKey is the tab store key of the deferred purchase.
	PendingCheckoutKey = "nl_pending_checkout"
)

// Session marks a logged-in tab.
type Session struct {
	UserID     uuid.UUID `json:"userId"`
	Identifier string    `json:"identifier"`
	LoginAt    time.Time `json:"loginAt"`
}

// PendingCheckout is a purchase intent waiting for a login to complete.
type PendingCheckout struct {
	ProductID string    `json:"productId"`
	Size      string    `json:"size"`
	Time      time.Time `json:"time"`
}
