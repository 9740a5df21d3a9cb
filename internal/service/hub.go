package service

import (
	"context"
	"sync"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

const subscriberBuffer = 8

// Hub fans debug snapshots out to the live viewers of each tab.
//
// Thread-safety: all methods are safe for concurrent use.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Snapshot]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Snapshot]struct{})}
}

// Subscribe registers a viewer of tabID. The returned cancel func must be
// called once the viewer is gone; it closes the channel.
func (h *Hub) Subscribe(tabID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)

	h.mu.Lock()
	if h.subs[tabID] == nil {
		h.subs[tabID] = make(map[chan Snapshot]struct{})
	}
	h.subs[tabID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[tabID], ch)
			if len(h.subs[tabID]) == 0 {
				delete(h.subs, tabID)
			}
			close(ch)
		})
	}
}

func (h *Hub) HasSubscribers(tabID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[tabID]) > 0
}

// Publish delivers snap to every viewer of tabID. Slow viewers miss updates.
func (h *Hub) Publish(tabID string, snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[tabID] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// hubDisplay refreshes the live debug view of one tab.
type hubDisplay struct {
	hub    *Hub
	tabID  string
	debug  *Debug
	logger *logger.Logger
}

var _ model.Display = (*hubDisplay)(nil)

func (d *hubDisplay) Refresh(ctx context.Context) {
	if !d.hub.HasSubscribers(d.tabID) {
		return
	}

	snap, err := d.debug.Snapshot(ctx)
	if err != nil {
		d.logger.Warn("Hub: failed to build snapshot",
			"tab_id", d.tabID,
			"error", err.Error())
		return
	}
	d.hub.Publish(d.tabID, snap)
}
