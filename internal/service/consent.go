package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// CookieTTL is the lifetime of the tracking cookies.
const CookieTTL = 7 * 24 * time.Hour

// Tracking cookie names.
const (
	CookieSessionID = "session_id"
	CookieAdID      = "ad_id"
	CookieLastSeen  = "last_seen"
)

// Consent manages the cookie choice of a tab and the cookies it implies.
type Consent struct {
	store  model.Store
	jar    model.CookieJar
	ids    model.IDGenerator
	clock  model.Clock
	events *EventLog
	logger *logger.Logger
}

func NewConsent(
	store model.Store,
	jar model.CookieJar,
	ids model.IDGenerator,
	clock model.Clock,
	events *EventLog,
	logger *logger.Logger,
) *Consent {
	return &Consent{
		store:  store,
		jar:    jar,
		ids:    ids,
		clock:  clock,
		events: events,
		logger: logger,
	}
}

// Apply stores choice and creates the cookies it allows.
// It returns the names of the created cookies.
func (c *Consent) Apply(ctx context.Context, choice model.ConsentChoice) ([]string, error) {
	var (
		event   string
		created []string
	)

	switch choice {
	case model.ConsentNecessary:
		event = model.EventConsentNecessary
		created = []string{CookieSessionID}
	case model.ConsentAll:
		event = model.EventConsentAll
		created = []string{CookieSessionID, CookieAdID, CookieLastSeen}
	case model.ConsentRefused:
		event = model.EventConsentRefused
		created = []string{}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidConsent, choice)
	}

	// every value is generated before anything is written
	values := make(map[string]string, len(created))
	for _, name := range created {
		if name == CookieLastSeen {
			values[name] = c.clock.Now().UTC().Format(time.RFC3339Nano)
			continue
		}
		id, err := c.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", name, err)
		}
		values[name] = id.String()
	}

	if err := c.store.Set(ctx, model.ConsentKey, string(choice)); err != nil {
		c.logger.Error("Consent: failed to store choice",
			"choice", choice,
			"error", err.Error())
		return nil, fmt.Errorf("failed to store consent: %w", err)
	}

	for _, name := range created {
		c.jar.SetCookie(name, values[name], CookieTTL)
	}

	c.logger.Info("Consent: choice applied",
		"choice", choice,
		"cookies", len(created))

	if err := c.events.Record(ctx, event, map[string]any{"created": created}); err != nil {
		return nil, err
	}
	return created, nil
}

// Current returns the stored choice, or ConsentUnknown.
func (c *Consent) Current(ctx context.Context) model.ConsentChoice {
	raw, ok, err := c.store.Get(ctx, model.ConsentKey)
	if err != nil {
		c.logger.Warn("Consent: failed to read choice", "error", err.Error())
		return model.ConsentUnknown
	}
	if !ok {
		return model.ConsentUnknown
	}

	choice, err := model.ParseConsentChoice(raw)
	if err != nil {
		return model.ConsentUnknown
	}
	return choice
}

// ShowBanner records that the banner was displayed on page.
// The banner is shown on every load whatever the stored choice.
func (c *Consent) ShowBanner(ctx context.Context, page string) error {
	return c.events.Record(ctx, model.EventCookieBannerShown, map[string]any{"page": page})
}
