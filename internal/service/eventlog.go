package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// EventLog is the newest-first log of domain events of one tab.
type EventLog struct {
	store      model.Store
	clock      model.Clock
	maxEntries int
	display    model.Display
	logger     *logger.Logger
}

// NewEventLog creates a log stored under model.LogKey.
// maxEntries <= 0 disables the cap.
func NewEventLog(store model.Store, clock model.Clock, maxEntries int, logger *logger.Logger) *EventLog {
	return &EventLog{
		store:      store,
		clock:      clock,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Attach sets the live display refreshed after every write.
func (l *EventLog) Attach(display model.Display) {
	l.display = display
}

// Record prepends an entry and persists the whole log.
func (l *EventLog) Record(ctx context.Context, eventType string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	entry := model.LogEntry{
		Time: l.clock.Now().UTC(),
		Type: eventType,
		Data: data,
	}

	err := l.store.Update(ctx, model.LogKey, func(current string, ok bool) (string, error) {
		entries := l.decode(current, ok)

		entries = append([]model.LogEntry{entry}, entries...)
		if l.maxEntries > 0 && len(entries) > l.maxEntries {
			entries = entries[:l.maxEntries]
		}

		return encodeEntries(entries)
	})
	if err != nil {
		l.logger.Error("EventLog: failed to record event",
			"type", eventType,
			"error", err.Error())
		return fmt.Errorf("failed to record event: %w", err)
	}

	l.logger.Debug("EventLog: event recorded", "type", eventType)
	l.refresh(ctx)
	return nil
}

// ReadAll returns the entries newest first. A missing or unreadable log is empty.
func (l *EventLog) ReadAll(ctx context.Context) []model.LogEntry {
	raw, ok, err := l.store.Get(ctx, model.LogKey)
	if err != nil {
		l.logger.Warn("EventLog: failed to read log", "error", err.Error())
		return []model.LogEntry{}
	}
	return l.decode(raw, ok)
}

// Reset replaces the log with a single reset_done entry.
func (l *EventLog) Reset(ctx context.Context) error {
	raw, err := encodeEntries([]model.LogEntry{{
		Time: l.clock.Now().UTC(),
		Type: model.EventResetDone,
		Data: map[string]any{"ok": true},
	}})
	if err != nil {
		return err
	}

	if err := l.store.Set(ctx, model.LogKey, raw); err != nil {
		return fmt.Errorf("failed to reset log: %w", err)
	}

	l.refresh(ctx)
	return nil
}

func (l *EventLog) decode(raw string, ok bool) []model.LogEntry {
	if !ok || raw == "" {
		return []model.LogEntry{}
	}

	var entries []model.LogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.Warn("EventLog: discarding unreadable log", "error", err.Error())
		return []model.LogEntry{}
	}
	if entries == nil {
		return []model.LogEntry{}
	}
	return entries
}

func (l *EventLog) refresh(ctx context.Context) {
	if l.display != nil {
		l.display.Refresh(ctx)
	}
}

func encodeEntries(entries []model.LogEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal log: %w", err)
	}
	return string(data), nil
}
