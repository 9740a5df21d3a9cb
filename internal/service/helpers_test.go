package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/catalog"
	"github.com/dtroode/storefront-server/internal/hasher"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/storage/memory"
	"github.com/dtroode/storefront-server/internal/testutil"
)

var testStart = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type testEnv struct {
	clock   *testutil.FixedClock
	ids     *testutil.SequentialIDs
	tabs    *memory.TabStores
	durable *memory.Store
	nav     *testutil.RecordingNavigator
	jar     *memory.CookieJar
	sf      *Storefront
	tab     *Tab
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	env := &testEnv{
		clock:   testutil.NewFixedClock(testStart),
		ids:     &testutil.SequentialIDs{},
		tabs:    memory.NewTabStores(),
		durable: memory.NewStore(),
		nav:     &testutil.RecordingNavigator{},
	}
	env.jar = memory.NewCookieJar(env.clock.Now)
	env.sf = NewStorefront(Dependencies{
		Tabs:    env.tabs,
		Durable: env.durable,
		Catalog: cat,
		Hasher:  hasher.NewSHA256(),
		IDs:     env.ids,
		Clock:   env.clock,
		Logger:  testutil.MakeNoopLogger(),
	}, opts)
	env.tab = env.sf.Tab("tab-1", env.jar, env.nav)
	return env
}

// eventTypes lists the logged types oldest first.
func eventTypes(ctx context.Context, l *EventLog) []string {
	entries := l.ReadAll(ctx)
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i].Type)
	}
	return out
}

func countEvents(ctx context.Context, l *EventLog, eventType string) int {
	n := 0
	for _, e := range l.ReadAll(ctx) {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func latest(ctx context.Context, l *EventLog) model.LogEntry {
	entries := l.ReadAll(ctx)
	if len(entries) == 0 {
		return model.LogEntry{}
	}
	return entries[0]
}
