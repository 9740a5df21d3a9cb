package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// DefaultPaymentPath is the payment page checkout navigates to.
const DefaultPaymentPath = "paiement.html"

// CheckoutOutcome tells the caller what a checkout attempt led to.
type CheckoutOutcome string

const (
	OutcomePayment       CheckoutOutcome = "payment"
	OutcomeLoginRequired CheckoutOutcome = "login_required"
)

// Checkout gates the payment page behind a session and keeps the purchase
// intent across the login interruption.
type Checkout struct {
	store       model.Store
	sessions    *Sessions
	navigator   model.Navigator
	clock       model.Clock
	events      *EventLog
	paymentPath string
	logger      *logger.Logger
}

func NewCheckout(
	store model.Store,
	sessions *Sessions,
	navigator model.Navigator,
	clock model.Clock,
	events *EventLog,
	paymentPath string,
	logger *logger.Logger,
) *Checkout {
	if paymentPath == "" {
		paymentPath = DefaultPaymentPath
	}
	return &Checkout{
		store:       store,
		sessions:    sessions,
		navigator:   navigator,
		clock:       clock,
		events:      events,
		paymentPath: paymentPath,
		logger:      logger,
	}
}

// Start goes to payment when the tab is logged in. Otherwise it stores the
// intent, replacing any earlier one, and reports that a login is required.
func (c *Checkout) Start(ctx context.Context, productID, size string) (CheckoutOutcome, error) {
	if _, ok := c.sessions.Active(ctx); ok {
		if err := c.NavigateToPayment(ctx, productID, size); err != nil {
			return "", err
		}
		return OutcomePayment, nil
	}

	pending := model.PendingCheckout{
		ProductID: productID,
		Size:      size,
		Time:      c.clock.Now().UTC(),
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pending checkout: %w", err)
	}
	if err := c.store.Set(ctx, model.PendingCheckoutKey, string(data)); err != nil {
		c.logger.Error("Checkout: failed to store pending checkout",
			"product_id", productID,
			"error", err.Error())
		return "", fmt.Errorf("failed to store pending checkout: %w", err)
	}

	c.logger.Info("Checkout: blocked until login",
		"product_id", productID,
		"size", size)

	err = c.events.Record(ctx, model.EventCheckoutBlocked, map[string]any{
		"productId": productID,
		"size":      size,
	})
	if err != nil {
		return "", err
	}
	return OutcomeLoginRequired, nil
}

// Pending returns the stored intent without consuming it.
func (c *Checkout) Pending(ctx context.Context) (model.PendingCheckout, bool) {
	raw, ok, err := c.store.Get(ctx, model.PendingCheckoutKey)
	if err != nil {
		c.logger.Warn("Checkout: failed to read pending checkout", "error", err.Error())
		return model.PendingCheckout{}, false
	}
	if !ok {
		return model.PendingCheckout{}, false
	}

	var pending model.PendingCheckout
	if err := json.Unmarshal([]byte(raw), &pending); err != nil || pending.ProductID == "" {
		return model.PendingCheckout{}, false
	}
	return pending, true
}

// Resume consumes the stored intent and goes to payment with it.
// The intent is deleted before navigating. It reports whether an intent existed.
func (c *Checkout) Resume(ctx context.Context) (bool, error) {
	raw, ok, err := c.store.Get(ctx, model.PendingCheckoutKey)
	if err != nil {
		return false, fmt.Errorf("failed to read pending checkout: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := c.store.Delete(ctx, model.PendingCheckoutKey); err != nil {
		return false, fmt.Errorf("failed to delete pending checkout: %w", err)
	}

	var pending model.PendingCheckout
	if err := json.Unmarshal([]byte(raw), &pending); err != nil || pending.ProductID == "" {
		c.logger.Warn("Checkout: dropped unreadable pending checkout")
		return false, nil
	}

	if err := c.NavigateToPayment(ctx, pending.ProductID, pending.Size); err != nil {
		return false, err
	}
	return true, nil
}

// NavigateToPayment records checkout_start and moves the tab to the payment page.
func (c *Checkout) NavigateToPayment(ctx context.Context, productID, size string) error {
	if err := c.events.Record(ctx, model.EventCheckoutStart, map[string]any{
		"id":   productID,
		"size": size,
	}); err != nil {
		return err
	}

	c.navigator.NavigateTo(PaymentURL(c.paymentPath, productID, size))
	return nil
}

// PaymentURL builds path?id=<id>&size=<size> with both values escaped.
func PaymentURL(path, productID, size string) string {
	return path + "?id=" + escapeComponent(productID) + "&size=" + escapeComponent(size)
}

// componentUnescaper restores the characters encodeURIComponent leaves as is
// and turns the query-style + back into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes like encodeURIComponent.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
