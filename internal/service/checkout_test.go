package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/model"
)

func TestPaymentURL(t *testing.T) {
	tests := []struct {
		id, size string
		want     string
	}{
		{"p3", "L", "paiement.html?id=p3&size=L"},
		{"p 1", "X/L", "paiement.html?id=p%201&size=X%2FL"},
		{"a&b=c", "é", "paiement.html?id=a%26b%3Dc&size=%C3%A9"},
		{"", "", "paiement.html?id=&size="},
		{"p(1)!", "L*'~", "paiement.html?id=p(1)!&size=L*'~"},
		{"50%+", "M", "paiement.html?id=50%25%2B&size=M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentURL(DefaultPaymentPath, tt.id, tt.size))
	}
}

func TestCheckout_WithSessionGoesToPayment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})
	_, err := env.tab.Sessions.Start(ctx, model.Account{ID: uuid.New()}, "bob")
	require.NoError(t, err)

	outcome, err := env.tab.Checkout.Start(ctx, "p2", "S")
	require.NoError(t, err)
	assert.Equal(t, OutcomePayment, outcome)
	assert.Equal(t, "paiement.html?id=p2&size=S", env.nav.Last())

	_, pending := env.tab.Checkout.Pending(ctx)
	assert.False(t, pending)

	entry := latest(ctx, env.tab.Events)
	assert.Equal(t, model.EventCheckoutStart, entry.Type)
	assert.Equal(t, map[string]any{"id": "p2", "size": "S"}, entry.Data)
}

func TestCheckout_WithoutSessionStoresIntent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	outcome, err := env.tab.Checkout.Start(ctx, "p3", "L")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLoginRequired, outcome)
	assert.Empty(t, env.nav.URLs)

	pending, ok := env.tab.Checkout.Pending(ctx)
	require.True(t, ok)
	assert.Equal(t, "p3", pending.ProductID)
	assert.Equal(t, "L", pending.Size)
	assert.True(t, testStart.Equal(pending.Time))

	entry := latest(ctx, env.tab.Events)
	assert.Equal(t, model.EventCheckoutBlocked, entry.Type)
	assert.Equal(t, map[string]any{"productId": "p3", "size": "L"}, entry.Data)
}

func TestCheckout_SecondBlockedAttemptOverwrites(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Checkout.Start(ctx, "p1", "S")
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.tab.Checkout.Start(ctx, "p8", "XXL")
	require.NoError(t, err)

	pending, ok := env.tab.Checkout.Pending(ctx)
	require.True(t, ok)
	assert.Equal(t, model.PendingCheckout{ProductID: "p8", Size: "XXL", Time: pending.Time}, pending)
	assert.True(t, testStart.Add(time.Minute).Equal(pending.Time))
}

func TestCheckout_ResumeConsumesIntent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Checkout.Start(ctx, "p3", "L")
	require.NoError(t, err)

	resumed, err := env.tab.Checkout.Resume(ctx)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, "paiement.html?id=p3&size=L", env.nav.Last())

	_, ok, _ := env.tabs.ForTab("tab-1").Get(ctx, model.PendingCheckoutKey)
	assert.False(t, ok)

	resumed, err = env.tab.Checkout.Resume(ctx)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Len(t, env.nav.URLs, 1)
}

func TestCheckout_ResumeWithoutIntentIsNoop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	resumed, err := env.tab.Checkout.Resume(ctx)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Empty(t, env.nav.URLs)
	assert.Empty(t, env.tab.Events.ReadAll(ctx))
}

func TestCheckout_ResumeDropsCorruptIntent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})
	store := env.tabs.ForTab("tab-1")
	require.NoError(t, store.Set(ctx, model.PendingCheckoutKey, "{broken"))

	resumed, err := env.tab.Checkout.Resume(ctx)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Empty(t, env.nav.URLs)

	_, ok, _ := store.Get(ctx, model.PendingCheckoutKey)
	assert.False(t, ok)
}

func TestCheckout_CustomPaymentPath(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{PaymentPath: "/pay"})
	_, err := env.tab.Sessions.Start(ctx, model.Account{ID: uuid.New()}, "bob")
	require.NoError(t, err)

	_, err = env.tab.Checkout.Start(ctx, "p1", "M L")
	require.NoError(t, err)
	assert.Equal(t, "/pay?id=p1&size=M%20L", env.nav.Last())
}
