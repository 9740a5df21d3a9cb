package testutil

import "sync"

// RecordingNavigator remembers every navigation target.
type RecordingNavigator struct {
	mu   sync.Mutex
	URLs []string
}

// NavigateTo records url.
func (n *RecordingNavigator) NavigateTo(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.URLs = append(n.URLs, url)
}

// Last returns the most recent target or "".
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.URLs) == 0 {
		return ""
	}
	return n.URLs[len(n.URLs)-1]
}
