// Package memory provides in-process implementations of the storefront stores.
// They back tests and single-instance deployments without redis or postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.TabStore = (*Store)(nil)

// Store is a mutex-guarded map implementing model.TabStore.
type Store struct {
	mu   sync.Mutex
	data map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Update runs fn while holding the store lock.
func (s *Store) Update(_ context.Context, key string, fn model.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	s.data[key] = next
	return nil
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

// TabStores keeps one Store per tab. With a positive ttl a tab that has not
// been requested for ttl is dropped, matching the redis key expiry.
type TabStores struct {
	mu        sync.Mutex
	tabs      map[string]*tabEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type tabEntry struct {
	store    *Store
	lastSeen time.Time
}

var _ model.TabStoreProvider = (*TabStores)(nil)

// NewTabStores creates an empty provider whose tabs never expire.
func NewTabStores() *TabStores {
	return NewTabStoresWithTTL(0)
}

// NewTabStoresWithTTL creates an empty provider evicting tabs idle for ttl.
func NewTabStoresWithTTL(ttl time.Duration) *TabStores {
	return &TabStores{
		tabs: make(map[string]*tabEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// ForTab returns the store of tabID, creating it on first use or after it expired.
func (p *TabStores) ForTab(tabID string) model.TabStore {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.ttl > 0 && now.Sub(p.lastSweep) >= p.ttl {
		p.sweep(now)
	}

	e, ok := p.tabs[tabID]
	if !ok || p.expired(e, now) {
		e = &tabEntry{store: NewStore()}
		p.tabs[tabID] = e
	}
	e.lastSeen = now
	return e.store
}

// Len reports how many tabs are currently held.
func (p *TabStores) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tabs)
}

func (p *TabStores) expired(e *tabEntry, now time.Time) bool {
	return p.ttl > 0 && now.Sub(e.lastSeen) >= p.ttl
}

// sweep must be called with p.mu held.
func (p *TabStores) sweep(now time.Time) {
	for id, e := range p.tabs {
		if p.expired(e, now) {
			delete(p.tabs, id)
		}
	}
	p.lastSweep = now
}
