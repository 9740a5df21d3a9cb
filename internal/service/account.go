package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// NormalizeIdentifier trims and lower-cases a login identifier.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Accounts is the durable registry of customer credentials.
type Accounts struct {
	store  model.Store
	hasher model.PasswordHasher
	ids    model.IDGenerator
	clock  model.Clock
	logger *logger.Logger
}

func NewAccounts(
	store model.Store,
	hasher model.PasswordHasher,
	ids model.IDGenerator,
	clock model.Clock,
	logger *logger.Logger,
) *Accounts {
	return &Accounts{
		store:  store,
		hasher: hasher,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Register creates an account. An identifier containing "@" is an email,
// anything else a username. A taken identifier is rejected before hashing;
// the check is repeated with the insert in one atomic update of the registry.
func (a *Accounts) Register(ctx context.Context, identifier, password string) (model.Account, error) {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" || password == "" {
		return model.Account{}, model.ErrMissingFields
	}

	_, err := a.find(ctx, identifier)
	switch {
	case err == nil:
		kind := "username"
		if strings.Contains(identifier, "@") {
			kind = "email"
		}
		return model.Account{}, fmt.Errorf("%w: %s %s", model.ErrDuplicateAccount, kind, identifier)
	case !errors.Is(err, model.ErrAccountNotFound):
		return model.Account{}, err
	}

	hash, err := a.hasher.Hash(ctx, password)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := a.ids.NewID()
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to generate account id: %w", err)
	}

	account := model.Account{
		ID:           id,
		PasswordHash: hash,
		CreatedAt:    a.clock.Now().UTC(),
	}
	if strings.Contains(identifier, "@") {
		account.Email = identifier
	} else {
		account.Username = identifier
	}

	err = a.store.Update(ctx, model.UsersKey, func(current string, ok bool) (string, error) {
		accounts := a.decode(current, ok)

		for _, existing := range accounts {
			if account.Email != "" && existing.Email == account.Email {
				return "", fmt.Errorf("%w: email %s", model.ErrDuplicateAccount, account.Email)
			}
			if account.Username != "" && existing.Username == account.Username {
				return "", fmt.Errorf("%w: username %s", model.ErrDuplicateAccount, account.Username)
			}
		}

		data, err := json.Marshal(append([]model.Account{account}, accounts...))
		if err != nil {
			return "", fmt.Errorf("failed to marshal accounts: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		a.logger.Info("Accounts: registration rejected",
			"identifier", identifier,
			"error", err.Error())
		return model.Account{}, err
	}

	a.logger.Info("Accounts: account registered",
		"identifier", identifier,
		"user_id", account.ID)

	return account, nil
}

// Authenticate finds the account named by identifier and checks password.
func (a *Accounts) Authenticate(ctx context.Context, identifier, password string) (model.Account, error) {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" || password == "" {
		return model.Account{}, model.ErrMissingFields
	}

	account, err := a.find(ctx, identifier)
	if err != nil {
		return model.Account{}, err
	}

	ok, err := a.hasher.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		a.logger.Warn("Accounts: stored hash not verifiable",
			"user_id", account.ID,
			"error", err.Error())
		return model.Account{}, model.ErrInvalidCredentials
	}
	if !ok {
		return model.Account{}, model.ErrInvalidCredentials
	}

	return account, nil
}

func (a *Accounts) find(ctx context.Context, identifier string) (model.Account, error) {
	raw, ok, err := a.store.Get(ctx, model.UsersKey)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to read accounts: %w", err)
	}

	for _, account := range a.decode(raw, ok) {
		if account.Matches(identifier) {
			return account, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (a *Accounts) decode(raw string, ok bool) []model.Account {
	if !ok || raw == "" {
		return nil
	}

	var accounts []model.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		a.logger.Warn("Accounts: registry unreadable, treating as empty", "error", err.Error())
		return nil
	}
	return accounts
}
