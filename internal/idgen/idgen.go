// Package idgen produces random identifiers for accounts and tracking cookies.
package idgen

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.IDGenerator = (*UUID)(nil)

// ErrUnavailable reports a random source that cannot produce identifiers.
var ErrUnavailable = errors.New("random source unavailable")

// UUID generates version 4 UUIDs from a cryptographic random source.
type UUID struct {
	rand io.Reader
}

// New returns a generator reading from crypto/rand.
// It fails when the source cannot produce an identifier, which callers
// must treat as fatal: there is no weaker fallback.
func New() (*UUID, error) {
	return NewFromReader(nil)
}

// NewFromReader uses r as the random source. A nil r means crypto/rand.
func NewFromReader(r io.Reader) (*UUID, error) {
	g := &UUID{rand: r}
	if _, err := g.NewID(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return g, nil
}

func (g *UUID) NewID() (uuid.UUID, error) {
	if g.rand == nil {
		return uuid.NewRandom()
	}
	return uuid.NewRandomFromReader(g.rand)
}
