package service

import (
	"context"
	"fmt"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Snapshot is the content of the debug panel.
type Snapshot struct {
	Logs    []model.LogEntry `json:"logs"`
	Cookies string           `json:"cookies"`
	// Storage holds every tab store key except the event log.
	Storage map[string]string `json:"storage"`
}

// Debug exposes the tab state for inspection and lets the visitor wipe it.
type Debug struct {
	store  model.TabStore
	jar    model.CookieJar
	events *EventLog
	logger *logger.Logger
}

func NewDebug(store model.TabStore, jar model.CookieJar, events *EventLog, logger *logger.Logger) *Debug {
	return &Debug{store: store, jar: jar, events: events, logger: logger}
}

func (d *Debug) Snapshot(ctx context.Context) (Snapshot, error) {
	keys, err := d.store.Keys(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list tab keys: %w", err)
	}

	storage := make(map[string]string, len(keys))
	for _, key := range keys {
		if key == model.LogKey {
			continue
		}
		value, ok, err := d.store.Get(ctx, key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			storage[key] = value
		}
	}

	return Snapshot{
		Logs:    d.events.ReadAll(ctx),
		Cookies: d.jar.ReadAll(),
		Storage: storage,
	}, nil
}

// Refresh records the manual refresh and returns a fresh snapshot.
func (d *Debug) Refresh(ctx context.Context) (Snapshot, error) {
	if err := d.events.Record(ctx, model.EventDebugRefresh, nil); err != nil {
		return Snapshot{}, err
	}
	return d.Snapshot(ctx)
}

// Reset deletes every cookie and tab key, session and pending checkout
// included. The log is left with a single reset_done entry.
func (d *Debug) Reset(ctx context.Context) error {
	d.jar.DeleteAll()

	if err := d.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear tab store: %w", err)
	}
	if err := d.events.Reset(ctx); err != nil {
		return err
	}

	d.logger.Info("Debug: tab reset")
	return nil
}
