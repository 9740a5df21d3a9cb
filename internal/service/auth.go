package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// AuthMode selects between logging in and creating an account.
type AuthMode string

const (
	AuthModeLogin  AuthMode = "login"
	AuthModeSignup AuthMode = "signup"
)

// ParseAuthMode converts raw input into an AuthMode. Empty input means login.
func ParseAuthMode(s string) (AuthMode, error) {
	switch m := AuthMode(s); m {
	case "":
		return AuthModeLogin, nil
	case AuthModeLogin, AuthModeSignup:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidAuthMode, s)
	}
}

// AuthForm is a submitted login or signup form.
type AuthForm struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// AuthResult is the outcome of a successful submit.
type AuthResult struct {
	Account model.Account
	Session model.Session
	// Resumed is true when a pending checkout was continued.
	Resumed bool
}

// AuthGuard allows one auth submission per tab at a time.
type AuthGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewAuthGuard() *AuthGuard {
	return &AuthGuard{active: make(map[string]struct{})}
}

// TryAcquire reports false when tabID already has a submission running.
func (g *AuthGuard) TryAcquire(tabID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[tabID]; busy {
		return false
	}
	g.active[tabID] = struct{}{}
	return true
}

func (g *AuthGuard) Release(tabID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, tabID)
}

// AuthOptions tune the auth flow.
type AuthOptions struct {
	// LogSignupFailures records signup_failed on duplicate accounts.
	// Off by default: duplicate signups leave no trace in the event log.
	LogSignupFailures bool
}

// Auth drives the login modal of a tab: showing it, hiding it and handling
// submitted credentials.
type Auth struct {
	tabID    string
	accounts *Accounts
	sessions *Sessions
	checkout *Checkout
	events   *EventLog
	guard    *AuthGuard
	validate *validator.Validate
	opts     AuthOptions
	logger   *logger.Logger
}

func NewAuth(
	tabID string,
	accounts *Accounts,
	sessions *Sessions,
	checkout *Checkout,
	events *EventLog,
	guard *AuthGuard,
	validate *validator.Validate,
	opts AuthOptions,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		tabID:    tabID,
		accounts: accounts,
		sessions: sessions,
		checkout: checkout,
		events:   events,
		guard:    guard,
		validate: validate,
		opts:     opts,
		logger:   logger,
	}
}

// Show opens the modal in mode.
func (a *Auth) Show(ctx context.Context, mode AuthMode) error {
	m, err := ParseAuthMode(string(mode))
	if err != nil {
		return err
	}
	return a.events.Record(ctx, model.EventLoginModalShown, map[string]any{"mode": string(m)})
}

func (a *Auth) Hide(ctx context.Context) error {
	return a.events.Record(ctx, model.EventLoginModalHidden, nil)
}

// Cancel closes the modal without submitting. A pending checkout stays stored.
func (a *Auth) Cancel(ctx context.Context) error {
	return a.Hide(ctx)
}

// Submit handles the form. On success the tab gets a session, the modal is
// hidden and a pending checkout, if any, is resumed.
func (a *Auth) Submit(ctx context.Context, mode AuthMode, identifier, password string) (AuthResult, error) {
	mode, err := ParseAuthMode(string(mode))
	if err != nil {
		return AuthResult{}, err
	}

	form := AuthForm{Identifier: NormalizeIdentifier(identifier), Password: password}
	if err := a.validate.StructCtx(ctx, form); err != nil {
		a.logger.Debug("Auth: rejected incomplete form",
			"mode", mode,
			"error", err.Error())
		if recErr := a.events.Record(ctx, model.EventAuthFailed, map[string]any{
			"reason": "missing_fields",
			"mode":   string(mode),
		}); recErr != nil {
			return AuthResult{}, recErr
		}
		return AuthResult{}, model.ErrMissingFields
	}

	if !a.guard.TryAcquire(a.tabID) {
		return AuthResult{}, model.ErrAuthInProgress
	}
	defer a.guard.Release(a.tabID)

	var account model.Account
	switch mode {
	case AuthModeSignup:
		account, err = a.signup(ctx, form)
	default:
		account, err = a.login(ctx, form)
	}
	if err != nil {
		return AuthResult{}, err
	}

	session, err := a.sessions.Start(ctx, account, form.Identifier)
	if err != nil {
		return AuthResult{}, err
	}

	event := model.EventLoginSuccess
	if mode == AuthModeSignup {
		event = model.EventSignupSuccess
	}
	if err := a.events.Record(ctx, event, map[string]any{
		"userId":     account.ID.String(),
		"identifier": form.Identifier,
	}); err != nil {
		return AuthResult{}, err
	}

	if err := a.Hide(ctx); err != nil {
		return AuthResult{}, err
	}

	resumed, err := a.checkout.Resume(ctx)
	if err != nil {
		return AuthResult{}, err
	}

	a.logger.Info("Auth: tab authenticated",
		"mode", mode,
		"user_id", account.ID,
		"resumed_checkout", resumed)

	return AuthResult{Account: account, Session: session, Resumed: resumed}, nil
}

func (a *Auth) signup(ctx context.Context, form AuthForm) (model.Account, error) {
	account, err := a.accounts.Register(ctx, form.Identifier, form.Password)
	if err == nil {
		return account, nil
	}

	if errors.Is(err, model.ErrDuplicateAccount) && a.opts.LogSignupFailures {
		if recErr := a.events.Record(ctx, model.EventSignupFailed, map[string]any{
			"reason":     "duplicate_account",
			"identifier": form.Identifier,
		}); recErr != nil {
			return model.Account{}, recErr
		}
	}
	return model.Account{}, err
}

func (a *Auth) login(ctx context.Context, form AuthForm) (model.Account, error) {
	account, err := a.accounts.Authenticate(ctx, form.Identifier, form.Password)
	if err == nil {
		return account, nil
	}

	var reason string
	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		reason = "user_not_found"
	case errors.Is(err, model.ErrInvalidCredentials):
		reason = "bad_password"
	default:
		return model.Account{}, err
	}

	if recErr := a.events.Record(ctx, model.EventLoginFailed, map[string]any{
		"reason":     reason,
		"identifier": form.Identifier,
	}); recErr != nil {
		return model.Account{}, recErr
	}
	return model.Account{}, err
}
