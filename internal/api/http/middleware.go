package http

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// TabHeader carries the tab token for clients that do not keep cookies.
const TabHeader = "X-Tab-Token"

// TabIdentity resolves the tab of every request. A request with no valid
// token starts a new tab and receives its token as a cookie and a header.
type TabIdentity struct {
	tokens model.TabTokenManager
	ids    model.IDGenerator
	ctxMgr model.ContextManager
	ttl    time.Duration
	secure bool
	logger *logger.Logger
}

func NewTabIdentity(
	tokens model.TabTokenManager,
	ids model.IDGenerator,
	ctxMgr model.ContextManager,
	ttl time.Duration,
	secure bool,
	logger *logger.Logger,
) *TabIdentity {
	return &TabIdentity{
		tokens: tokens,
		ids:    ids,
		ctxMgr: ctxMgr,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

func (m *TabIdentity) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tabID, ok := m.fromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(m.ctxMgr.SetTabIDToContext(r.Context(), tabID)))
			return
		}

		id, err := m.ids.NewID()
		if err != nil {
			m.logger.Error("failed to generate tab id", "error", err.Error())
			writeError(w, err)
			return
		}
		tabID := id.String()

		token, err := m.tokens.GenerateTabToken(tabID)
		if err != nil {
			m.logger.Error("failed to sign tab token", "error", err.Error())
			writeError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     TabCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(TabHeader, token)

		m.logger.Debug("new tab", "tab_id", tabID)
		next.ServeHTTP(w, r.WithContext(m.ctxMgr.SetTabIDToContext(r.Context(), tabID)))
	})
}

func (m *TabIdentity) fromRequest(r *http.Request) (string, bool) {
	token := r.Header.Get(TabHeader)
	if token == "" {
		if c, err := r.Cookie(TabCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return "", false
	}

	tabID, err := m.tokens.ParseTabToken(token)
	if err != nil {
		m.logger.Debug("rejected tab token", "error", err.Error())
		return "", false
	}
	return tabID, true
}

// RequestLogging logs method, path, status and duration of every request.
func RequestLogging(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chiMiddleware.GetReqID(r.Context()))
		})
	}
}
