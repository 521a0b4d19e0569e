package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.Use(NewSessionMiddleware(testSecret, time.Hour, false).Session())
	r.GET("/session", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})
	return r
}

func TestSession_IssuesTokenWhenMissing(t *testing.T) {
	r := sessionRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Body.String()
	_, err := uuid.Parse(sessionID)
	require.NoError(t, err)

	token := w.Header().Get(SessionHeader)
	claims, err := util.ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesValidToken(t *testing.T) {
	sessionID := uuid.NewString()
	token, err := util.SignSessionToken(sessionID, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(req *http.Request)
		target  string
	}{
		{"header", func(req *http.Request) { req.Header.Set(SessionHeader, token) }, "/session"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, "/session"},
		{"query", func(req *http.Request) {}, "/session?session=" + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			sessionRouter().ServeHTTP(w, req)

			assert.Equal(t, sessionID, w.Body.String())
			assert.Empty(t, w.Header().Get(SessionHeader), "no new token is issued")
		})
	}
}

func TestSession_ReplacesInvalidToken(t *testing.T) {
	expired, err := util.SignSessionToken(uuid.NewString(), testSecret, -time.Minute)
	require.NoError(t, err)

	for _, token := range []string{"garbage", expired} {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set(SessionHeader, token)
		w := httptest.NewRecorder()
		sessionRouter().ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(SessionHeader))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Body.String())
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/products/:productId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"prod-001", "prod-002"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	expected := `
# HELP storefront_http_requests_total HTTP requests by method, route template and status code.
# TYPE storefront_http_requests_total counter
storefront_http_requests_total{method="GET",route="/products/:productId",status="200"} 2
storefront_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(reg, strings.NewReader(expected), "storefront_http_requests_total"))
}
