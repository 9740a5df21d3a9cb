package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/config"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	return cfg
}

func TestNewApp_InMemory(t *testing.T) {
	cfg := defaultConfig(t)

	a, err := newApp(context.Background(), cfg, testutil.MakeNoopLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.probeSet)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []json.RawMessage `json:"products"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Products, 8)

	// image routes are only mounted with object storage configured
	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/produit-1.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewApp_Argon2(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.KDF.Algorithm = "argon2id"
	cfg.KDF.Time = 1
	cfg.KDF.MemKiB = 8 * 1024
	cfg.KDF.Par = 1

	a, err := newApp(context.Background(), cfg, testutil.MakeNoopLogger())
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestNewApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown hasher", func(c *config.Config) { c.KDF.Algorithm = "md5" }},
		{"missing catalog", func(c *config.Config) { c.Catalog.Path = "/nonexistent/catalog.yaml" }},
		{"unreachable redis", func(c *config.Config) { c.Redis.Addr = "127.0.0.1:1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)

			_, err := newApp(context.Background(), cfg, testutil.MakeNoopLogger())
			assert.Error(t, err)
		})
	}
}
