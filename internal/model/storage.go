package model

import (
	"context"
	"io"
	"time"
)

// UpdateFunc computes the new value of a key from its current value.
// ok is false when the key is absent. Returning an error aborts the update.
type UpdateFunc func(current string, ok bool) (string, error)

// Store is a string key-value capability.
// Update must apply fn atomically with respect to other writers of the same key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// TabStore is the ephemeral store of one browsing tab.
type TabStore interface {
	Store
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// TabStoreProvider hands out the ephemeral store of a tab.
type TabStoreProvider interface {
	ForTab(tabID string) TabStore
}

// CookieJar is the cookie capability of a tab.
type CookieJar interface {
	SetCookie(name, value string, ttl time.Duration)
	// ReadAll returns the cookies in "name=value; name2=value2" form.
	ReadAll() string
	DeleteAll()
}

// ObjectStorage stores binary objects such as product images.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
