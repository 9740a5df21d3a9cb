package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Sessions keeps the login marker of a tab. There is no logout:
// a session ends when the tab store is cleared.
type Sessions struct {
	store  model.Store
	clock  model.Clock
	logger *logger.Logger
}

func NewSessions(store model.Store, clock model.Clock, logger *logger.Logger) *Sessions {
	return &Sessions{store: store, clock: clock, logger: logger}
}

// Start marks the tab as logged in as account.
func (s *Sessions) Start(ctx context.Context, account model.Account, identifier string) (model.Session, error) {
	session := model.Session{
		UserID:     account.ID,
		Identifier: identifier,
		LoginAt:    s.clock.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.store.Set(ctx, model.SessionKey, string(data)); err != nil {
		return model.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Debug("Sessions: session started", "user_id", account.ID)
	return session, nil
}

// Active returns the current session. A missing or unreadable session is absent.
func (s *Sessions) Active(ctx context.Context) (model.Session, bool) {
	raw, ok, err := s.store.Get(ctx, model.SessionKey)
	if err != nil {
		s.logger.Warn("Sessions: failed to read session", "error", err.Error())
		return model.Session{}, false
	}
	if !ok {
		return model.Session{}, false
	}

	var session model.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("Sessions: discarding unreadable session", "error", err.Error())
		return model.Session{}, false
	}
	if session.UserID == uuid.Nil {
		return model.Session{}, false
	}
	return session, true
}
