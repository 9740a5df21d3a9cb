package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/storage/memory"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestConsent_ApplyCookieCounts(t *testing.T) {
	tests := []struct {
		choice  model.ConsentChoice
		event   string
		cookies []string
	}{
		{model.ConsentAll, model.EventConsentAll, []string{"ad_id", "last_seen", "session_id"}},
		{model.ConsentNecessary, model.EventConsentNecessary, []string{"session_id"}},
		{model.ConsentRefused, model.EventConsentRefused, []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.choice), func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, Options{})

			created, err := env.tab.Consent.Apply(ctx, tt.choice)
			require.NoError(t, err)
			assert.Len(t, created, len(tt.cookies))

			assert.Equal(t, tt.cookies, env.jar.Names())
			assert.Equal(t, 1, countEvents(ctx, env.tab.Events, tt.event))
			assert.Len(t, env.tab.Events.ReadAll(ctx), 1)
			assert.Equal(t, tt.choice, env.tab.Consent.Current(ctx))
		})
	}
}

func TestConsent_ApplyAllValues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Consent.Apply(ctx, model.ConsentAll)
	require.NoError(t, err)

	assert.Equal(t,
		"session_id=00000000-0000-0000-0000-000000000001; "+
			"ad_id=00000000-0000-0000-0000-000000000002; "+
			"last_seen=2025-03-14T09:26:53Z",
		env.jar.ReadAll())

	entry := latest(ctx, env.tab.Events)
	assert.Equal(t, model.EventConsentAll, entry.Type)
	assert.Equal(t, []any{"session_id", "ad_id", "last_seen"}, entry.Data["created"])
}

func TestConsent_RefusedLogsEmptyList(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Consent.Apply(ctx, model.ConsentRefused)
	require.NoError(t, err)

	assert.Equal(t, "", env.jar.ReadAll())
	assert.Equal(t, []any{}, latest(ctx, env.tab.Events).Data["created"])
}

func TestConsent_InvalidChoiceChangesNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	for _, choice := range []model.ConsentChoice{model.ConsentUnknown, "", "maybe"} {
		_, err := env.tab.Consent.Apply(ctx, choice)
		assert.ErrorIs(t, err, model.ErrInvalidConsent)
	}

	assert.Empty(t, env.jar.Names())
	assert.Empty(t, env.tab.Events.ReadAll(ctx))
	assert.Equal(t, model.ConsentUnknown, env.tab.Consent.Current(ctx))
}

func TestConsent_ReapplyReplacesChoice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Consent.Apply(ctx, model.ConsentAll)
	require.NoError(t, err)
	_, err = env.tab.Consent.Apply(ctx, model.ConsentRefused)
	require.NoError(t, err)

	assert.Equal(t, model.ConsentRefused, env.tab.Consent.Current(ctx))
	// cookies already created are kept
	assert.Len(t, env.jar.Names(), 3)
}

func TestConsent_CurrentIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	require.NoError(t, env.tabs.ForTab("tab-1").Set(ctx, model.ConsentKey, "yes please"))
	assert.Equal(t, model.ConsentUnknown, env.tab.Consent.Current(ctx))
}

func TestConsent_IDFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	jar := memory.NewCookieJar(nil)
	clock := testutil.NewFixedClock(testStart)
	events := NewEventLog(store, clock, 0, testutil.MakeNoopLogger())

	ids := &mocks.IDGenerator{}
	ids.On("NewID").Return(uuid.UUID{}, errors.New("no entropy"))

	c := NewConsent(store, jar, ids, clock, events, testutil.MakeNoopLogger())
	_, err := c.Apply(ctx, model.ConsentNecessary)
	assert.ErrorContains(t, err, "failed to generate session_id")

	assert.Empty(t, jar.Names())
	assert.Equal(t, model.ConsentUnknown, c.Current(ctx))
	assert.Empty(t, events.ReadAll(ctx))
}

func TestConsent_ShowBanner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, Options{})

	_, err := env.tab.Consent.Apply(ctx, model.ConsentAll)
	require.NoError(t, err)
	require.NoError(t, env.tab.Consent.ShowBanner(ctx, "/index.html"))

	entry := latest(ctx, env.tab.Events)
	assert.Equal(t, model.EventCookieBannerShown, entry.Type)
	assert.Equal(t, "/index.html", entry.Data["page"])
}
