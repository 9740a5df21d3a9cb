package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
)

// TabCookie holds the signed tab token. It is transport state and is never
// exposed through the cookie jar.
const TabCookie = "nl_tab"

var _ model.CookieJar = (*CookieJar)(nil)

// CookieJar is the cookie view of one request: it starts from the cookies
// the browser sent and answers every change with a Set-Cookie header.
type CookieJar struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	now    func() time.Time
	order  []string
	values map[string]string
}

// NewCookieJar reads the request cookies, ignoring the tab cookie.
func NewCookieJar(w http.ResponseWriter, r *http.Request, now func() time.Time) *CookieJar {
	if now == nil {
		now = time.Now
	}
	j := &CookieJar{w: w, now: now, values: make(map[string]string)}
	for _, c := range r.Cookies() {
		if c.Name == TabCookie {
			continue
		}
		if _, seen := j.values[c.Name]; !seen {
			j.order = append(j.order, c.Name)
		}
		j.values[c.Name] = c.Value
	}
	return j
}

// SetCookie writes a path=/ cookie expiring after ttl. A non-positive ttl deletes it.
func (j *CookieJar) SetCookie(name, value string, ttl time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if ttl <= 0 {
		j.expire(name)
		return
	}

	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  j.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	if _, ok := j.values[name]; !ok {
		j.order = append(j.order, name)
	}
	j.values[name] = value
}

func (j *CookieJar) ReadAll() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	parts := make([]string, 0, len(j.order))
	for _, name := range j.order {
		parts = append(parts, name+"="+j.values[name])
	}
	return strings.Join(parts, "; ")
}

// DeleteAll expires every known cookie except the tab cookie.
func (j *CookieJar) DeleteAll() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, name := range append([]string(nil), j.order...) {
		j.expire(name)
	}
}

func (j *CookieJar) expire(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})

	if _, ok := j.values[name]; !ok {
		return
	}
	delete(j.values, name)
	for i, n := range j.order {
		if n == name {
			j.order = append(j.order[:i], j.order[i+1:]...)
			break
		}
	}
}
