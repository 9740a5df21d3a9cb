package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.CookieJar = (*CookieJar)(nil)

type cookie struct {
	value   string
	expires time.Time
}

// CookieJar is an in-memory cookie jar with expiry.
type CookieJar struct {
	mu      sync.Mutex
	cookies map[string]cookie
	order   []string
	now     func() time.Time
}

// NewCookieJar creates an empty jar using now for expiry checks.
func NewCookieJar(now func() time.Time) *CookieJar {
	if now == nil {
		now = time.Now
	}
	return &CookieJar{cookies: make(map[string]cookie), now: now}
}

// SetCookie stores or replaces name. A non-positive ttl deletes it.
func (j *CookieJar) SetCookie(name, value string, ttl time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if ttl <= 0 {
		j.remove(name)
		return
	}
	if _, ok := j.cookies[name]; !ok {
		j.order = append(j.order, name)
	}
	j.cookies[name] = cookie{value: value, expires: j.now().Add(ttl)}
}

// ReadAll returns unexpired cookies in insertion order.
func (j *CookieJar) ReadAll() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	parts := make([]string, 0, len(j.order))
	for _, name := range j.order {
		c := j.cookies[name]
		if !c.expires.After(now) {
			continue
		}
		parts = append(parts, name+"="+c.value)
	}
	return strings.Join(parts, "; ")
}

func (j *CookieJar) DeleteAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = make(map[string]cookie)
	j.order = nil
}

// Names returns the names of unexpired cookies, sorted.
func (j *CookieJar) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	names := make([]string, 0, len(j.cookies))
	for name, c := range j.cookies {
		if c.expires.After(now) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (j *CookieJar) remove(name string) {
	delete(j.cookies, name)
	for i, n := range j.order {
		if n == name {
			j.order = append(j.order[:i], j.order[i+1:]...)
			return
		}
	}
}
