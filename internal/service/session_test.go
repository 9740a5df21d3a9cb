package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/storage/memory"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestSessions_StartAndActive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewSessions(store, testutil.NewFixedClock(testStart), testutil.MakeNoopLogger())

	_, ok := s.Active(ctx)
	assert.False(t, ok)

	account := model.Account{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111")}
	started, err := s.Start(ctx, account, "bob")
	require.NoError(t, err)

	got, ok := s.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, started.UserID, got.UserID)
	assert.Equal(t, "bob", got.Identifier)
	assert.True(t, testStart.Equal(got.LoginAt))

	raw, _, _ := store.Get(ctx, model.SessionKey)
	assert.JSONEq(t, `{"userId":"11111111-1111-1111-1111-111111111111","identifier":"bob","loginAt":"2025-03-14T09:26:53Z"}`, raw)
}

func TestSessions_CorruptIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewSessions(store, testutil.NewFixedClock(testStart), testutil.MakeNoopLogger())

	for _, raw := range []string{"{", "null", `{"identifier":"bob"}`} {
		require.NoError(t, store.Set(ctx, model.SessionKey, raw))
		_, ok := s.Active(ctx)
		assert.False(t, ok, raw)
	}
}

func TestSessions_GoneAfterClear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewSessions(store, testutil.NewFixedClock(testStart), testutil.MakeNoopLogger())

	_, err := s.Start(ctx, model.Account{ID: uuid.New()}, "bob")
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	_, ok := s.Active(ctx)
	assert.False(t, ok)
}
