package http

import (
	"sync"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.Navigator = (*Navigator)(nil)

// Navigator remembers where a request asked the tab to go.
// The target is returned to the browser as the "redirect" response field.
type Navigator struct {
	mu     sync.Mutex
	target string
}

func (n *Navigator) NavigateTo(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = url
}

// Target returns the last requested URL or "".
func (n *Navigator) Target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}
