package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/helpdesk/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptStub answers every script call with a fixed reply.
type scriptStub struct {
	reply []interface{}
	err   error
	keys  []string
}

func (s *scriptStub) run(ctx context.Context, keys []string) *redis.Cmd {
	s.keys = append(s.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
		return cmd
	}
	cmd.SetVal(s.reply)
	return cmd
}

func (s *scriptStub) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.run(ctx, keys)
}

func (s *scriptStub) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.run(ctx, keys)
}

func (s *scriptStub) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.run(ctx, keys)
}

func (s *scriptStub) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.run(ctx, keys)
}

func (s *scriptStub) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (s *scriptStub) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func serve(t *testing.T, engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func throttled(limiter *ratelimit.Limiter) *gin.Engine {
	engine := gin.New()
	engine.Use(Throttle(limiter, "login", 5, time.Minute))
	engine.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestThrottleWithoutLimiter(t *testing.T) {
	rec := serve(t, throttled(nil), httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestThrottleAllows(t *testing.T) {
	stub := &scriptStub{reply: []interface{}{int64(1), int64(4), int64(0)}}
	engine := throttled(ratelimit.NewLimiter(stub, "helpdesk:throttle"))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.0.2.10:5000"
	rec := serve(t, engine, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, []string{"helpdesk:throttle:login:192.0.2.10"}, stub.keys)
}

func TestThrottleRejects(t *testing.T) {
	resetAt := time.Now().Add(30 * time.Second)
	stub := &scriptStub{reply: []interface{}{int64(0), int64(0), resetAt.UnixMilli()}}
	engine := throttled(ratelimit.NewLimiter(stub, "helpdesk:throttle"))

	rec := serve(t, engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
	assert.EqualValues(t, 30, body["details"].(map[string]any)["retry_after"])
}

func TestThrottleFailsOpen(t *testing.T) {
	stub := &scriptStub{err: errors.New("connection refused")}
	engine := throttled(ratelimit.NewLimiter(stub, "helpdesk:throttle"))

	rec := serve(t, engine, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer xyz", want: "xyz"},
		{name: "lowercase scheme", header: "bearer xyz", want: "xyz"},
		{name: "basic scheme ignored", header: "Basic dXNlcjpwYXNz"},
		{name: "scheme only", header: "Bearer"},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			assert.Equal(t, tt.want, BearerToken(c))
		})
	}
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"http://localhost:3000"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := httptest.NewRequest(http.MethodGet, "/x", nil)
	allowed.Header.Set("Origin", "http://localhost:3000")
	rec := serve(t, engine, allowed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	preflight := httptest.NewRequest(http.MethodOptions, "/x", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, serve(t, engine, preflight).Code)

	foreign := httptest.NewRequest(http.MethodOptions, "/x", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	rec = serve(t, engine, foreign)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIsSuspiciousPath(t *testing.T) {
	for _, path := range []string{"/.env", "/.git/config", "/WP-ADMIN/", "/shell.php", "/cgi-bin/test"} {
		assert.True(t, isSuspiciousPath(path), path)
	}
	for _, path := range []string{"/api/v1/auth/login", "/health", "/api/v1/settings/site.name"} {
		assert.False(t, isSuspiciousPath(path), path)
	}
}

func TestIsSuspiciousUserAgent(t *testing.T) {
	assert.True(t, isSuspiciousUserAgent("sqlmap/1.7"))
	assert.False(t, isSuspiciousUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
}
