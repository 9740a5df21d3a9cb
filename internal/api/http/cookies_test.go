package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCookieJar_ReadsRequestCookiesWithoutTabCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})
	r.AddCookie(&http.Cookie{Name: TabCookie, Value: "token"})
	r.AddCookie(&http.Cookie{Name: "b", Value: "2"})

	jar := NewCookieJar(httptest.NewRecorder(), r, nil)
	assert.Equal(t, "a=1; b=2", jar.ReadAll())
}

func TestCookieJar_SetCookieWritesHeader(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})

	jar := NewCookieJar(rec, r, func() time.Time { return now })
	jar.SetCookie("b", "2", 7*24*time.Hour)
	jar.SetCookie("a", "3", time.Hour)

	assert.Equal(t, "a=3; b=2", jar.ReadAll())

	resp := rec.Result()
	b := cookieByName(resp.Cookies(), "b")
	require.NotNil(t, b)
	assert.Equal(t, "/", b.Path)
	assert.Equal(t, 7*24*3600, b.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, b.SameSite)
}

func TestCookieJar_NonPositiveTTLExpires(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})

	jar := NewCookieJar(rec, r, nil)
	jar.SetCookie("a", "", 0)

	assert.Equal(t, "", jar.ReadAll())
	a := cookieByName(rec.Result().Cookies(), "a")
	require.NotNil(t, a)
	assert.Negative(t, a.MaxAge)
}

func TestCookieJar_DeleteAll(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})
	r.AddCookie(&http.Cookie{Name: TabCookie, Value: "token"})

	jar := NewCookieJar(rec, r, nil)
	jar.SetCookie("b", "2", time.Hour)
	jar.DeleteAll()

	assert.Equal(t, "", jar.ReadAll())
	cookies := rec.Result().Cookies()
	assert.Nil(t, cookieByName(cookies, TabCookie))
	for _, c := range cookies {
		if c.Name == "a" {
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestNavigator(t *testing.T) {
	var nav Navigator
	assert.Equal(t, "", nav.Target())

	nav.NavigateTo("paiement.html?id=p1&size=M")
	nav.NavigateTo("index.html")
	assert.Equal(t, "index.html", nav.Target())
}
