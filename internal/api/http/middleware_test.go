package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/storefront-server/internal/api/context"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func echoTab(ctxMgr *apicontext.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tabID, ok := ctxMgr.GetTabIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(tabID))
	})
}

func TestTabIdentity_HeaderWinsOverCookie(t *testing.T) {
	tokens := &mocks.TabTokenManager{}
	tokens.On("ParseTabToken", "from-header").Return("tab-h", nil)
	ctxMgr := apicontext.NewManager()

	m := NewTabIdentity(tokens, &testutil.SequentialIDs{}, ctxMgr, time.Hour, false, testutil.MakeNoopLogger())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(TabHeader, "from-header")
	r.AddCookie(&http.Cookie{Name: TabCookie, Value: "from-cookie"})
	rec := httptest.NewRecorder()

	m.Handle(echoTab(ctxMgr)).ServeHTTP(rec, r)

	assert.Equal(t, "tab-h", rec.Body.String())
	assert.Empty(t, rec.Header().Get(TabHeader))
	tokens.AssertExpectations(t)
}

func TestTabIdentity_InvalidTokenStartsNewTab(t *testing.T) {
	tokens := &mocks.TabTokenManager{}
	tokens.On("ParseTabToken", "forged").Return("", errors.New("bad signature"))
	tokens.On("GenerateTabToken", "00000000-0000-0000-0000-000000000001").Return("fresh", nil)
	ctxMgr := apicontext.NewManager()

	m := NewTabIdentity(tokens, &testutil.SequentialIDs{}, ctxMgr, time.Hour, true, testutil.MakeNoopLogger())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: TabCookie, Value: "forged"})
	rec := httptest.NewRecorder()

	m.Handle(echoTab(ctxMgr)).ServeHTTP(rec, r)

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", rec.Body.String())
	assert.Equal(t, "fresh", rec.Header().Get(TabHeader))

	c := cookieByName(rec.Result().Cookies(), TabCookie)
	require.NotNil(t, c)
	assert.Equal(t, "fresh", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	tokens.AssertExpectations(t)
}

func TestTabIdentity_Failures(t *testing.T) {
	t.Run("id generation", func(t *testing.T) {
		ids := &mocks.IDGenerator{}
		ids.On("NewID").Return(uuid.Nil, errors.New("no entropy"))

		m := NewTabIdentity(&mocks.TabTokenManager{}, ids, apicontext.NewManager(), time.Hour, false, testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		m.Handle(echoTab(apicontext.NewManager())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("signing", func(t *testing.T) {
		tokens := &mocks.TabTokenManager{}
		tokens.On("GenerateTabToken", mock.Anything).Return("", errors.New("no key"))

		m := NewTabIdentity(tokens, &testutil.SequentialIDs{}, apicontext.NewManager(), time.Hour, false, testutil.MakeNoopLogger())
		rec := httptest.NewRecorder()
		m.Handle(echoTab(apicontext.NewManager())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Nil(t, cookieByName(rec.Result().Cookies(), TabCookie))
	})
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, 0, "json")

	r := chi.NewRouter()
	r.Use(RequestLogging(log))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"HTTP request completed"`), out)
	assert.Contains(t, out, `"path":"/ping"`)
	assert.Contains(t, out, `"status":202`)
}
