package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ligapro-predictor/internal/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestSessionIssuesCookie(t *testing.T) {
	var seen string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(constants.SessionIdleTTL.Seconds()), cookies[0].MaxAge)
}

func TestSessionReusesValidCookie(t *testing.T) {
	id := uuid.New().String()
	var seen string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookie, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, id, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, id, cookies[0].Value, "cookie is refreshed, not replaced")
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	var seen string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: constants.SessionCookie, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "not-a-uuid", seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)
}

func TestGettersOnBareContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
	assert.Empty(t, GetSessionID(req.Context()))
}
