package testutil

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SequentialIDs generates predictable UUIDs: 00000000-0000-0000-0000-000000000001, ...
type SequentialIDs struct {
	mu  sync.Mutex
	seq int
}

// NewID returns the next identifier in sequence.
func (g *SequentialIDs) NewID() (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", g.seq)), nil
}
