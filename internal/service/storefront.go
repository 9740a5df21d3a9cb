package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/storefront-server/internal/catalog"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Dependencies are the process-wide collaborators shared by every tab.
type Dependencies struct {
	Tabs     model.TabStoreProvider
	Durable  model.Store
	Catalog  *catalog.Catalog
	Hasher   model.PasswordHasher
	IDs      model.IDGenerator
	Clock    model.Clock
	Hub      *Hub
	Validate *validator.Validate
	Logger   *logger.Logger
}

// Options tune the storefront behaviour.
type Options struct {
	LogMaxEntries int
	PaymentPath   string
	Auth          AuthOptions
}

// Storefront builds the component graph of a tab from the shared stores.
type Storefront struct {
	deps     Dependencies
	opts     Options
	accounts *Accounts
	guard    *AuthGuard
}

func NewStorefront(deps Dependencies, opts Options) *Storefront {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Hub == nil {
		deps.Hub = NewHub()
	}
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}

	return &Storefront{
		deps:     deps,
		opts:     opts,
		accounts: NewAccounts(deps.Durable, deps.Hasher, deps.IDs, deps.Clock, deps.Logger),
		guard:    NewAuthGuard(),
	}
}

func (s *Storefront) Catalog() *catalog.Catalog { return s.deps.Catalog }

func (s *Storefront) Hub() *Hub { return s.deps.Hub }

func (s *Storefront) Accounts() *Accounts { return s.accounts }

// Tab wires the components of tabID around the given cookie jar and navigator.
func (s *Storefront) Tab(tabID string, jar model.CookieJar, navigator model.Navigator) *Tab {
	log := s.deps.Logger.With("tab_id", tabID)
	store := s.deps.Tabs.ForTab(tabID)
	clock := s.deps.Clock

	events := NewEventLog(store, clock, s.opts.LogMaxEntries, log)
	consent := NewConsent(store, jar, s.deps.IDs, clock, events, log)
	sessions := NewSessions(store, clock, log)
	checkout := NewCheckout(store, sessions, navigator, clock, events, s.opts.PaymentPath, log)
	auth := NewAuth(tabID, s.accounts, sessions, checkout, events, s.guard, s.deps.Validate, s.opts.Auth, log)
	shop := NewShop(s.deps.Catalog, consent, jar, navigator, clock, events, log)
	debug := NewDebug(store, jar, events, log)

	events.Attach(&hubDisplay{hub: s.deps.Hub, tabID: tabID, debug: debug, logger: log})

	return &Tab{
		ID:       tabID,
		Events:   events,
		Consent:  consent,
		Sessions: sessions,
		Checkout: checkout,
		Auth:     auth,
		Shop:     shop,
		Debug:    debug,
		catalog:  s.deps.Catalog,
	}
}

// Tab is the set of components serving one browsing tab.
type Tab struct {
	ID       string
	Events   *EventLog
	Consent  *Consent
	Sessions *Sessions
	Checkout *Checkout
	Auth     *Auth
	Shop     *Shop
	Debug    *Debug

	catalog *catalog.Catalog
}

// Buy starts checkout of a product. When no session is active the
// intent is kept and the login modal opened.
func (t *Tab) Buy(ctx context.Context, productID, size string) (CheckoutOutcome, error) {
	product, ok := t.catalog.Get(productID)
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrUnknownProduct, productID)
	}
	if size == "" {
		size = product.DefaultSize()
	}

	outcome, err := t.Checkout.Start(ctx, product.ID, size)
	if err != nil {
		return "", err
	}
	if outcome == OutcomeLoginRequired {
		if err := t.Auth.Show(ctx, AuthModeLogin); err != nil {
			return "", err
		}
	}
	return outcome, nil
}
