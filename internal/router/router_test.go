package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/helpdesk/config"
	"github.com/Payphone-Digital/helpdesk/internal/constants"
	"github.com/Payphone-Digital/helpdesk/internal/handler"
	"github.com/Payphone-Digital/helpdesk/internal/middleware"
	"github.com/Payphone-Digital/helpdesk/internal/repository"
	"github.com/Payphone-Digital/helpdesk/internal/router"
	"github.com/Payphone-Digital/helpdesk/internal/service"
	"github.com/Payphone-Digital/helpdesk/pkg/circuit"
	"github.com/Payphone-Digital/helpdesk/pkg/database"
	"github.com/Payphone-Digital/helpdesk/pkg/mailer"
	"github.com/Payphone-Digital/helpdesk/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	cookieName    = "helpdesk_token"
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

var codeInEmail = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent)
	match := codeInEmail.FindStringSubmatch(o.sent[len(o.sent)-1].HTML)
	require.Len(t, match, 2, "no code in email body")
	return match[1]
}

type server struct {
	engine *gin.Engine
	db     *gorm.DB
	mail   *outbox
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWithLimiter(t, nil)
}

func newServerWithLimiter(t *testing.T, limiter *ratelimit.Limiter) *server {
	t.Helper()

	db, err := database.NewSQLiteDB(database.MemoryDSN(t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.CloseDB(db) })

	_, err = database.SeedAdmin(db, config.SeedConfig{
		AdminName:     "Administrator",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	})
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{
			Name:           "helpdesk",
			Environment:    "test",
			Timeout:        10 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpirationTime: time.Hour, Issuer: "helpdesk-test"},
		Auth:      config.AuthConfig{CookieName: cookieName, OtpTTL: 5 * time.Minute},
		RateLimit: config.RateLimitConfig{Request: 5, Duration: time.Minute},
	}

	mail := &outbox{}
	breaker := circuit.NewBreaker("mail", circuit.DefaultConfig(), nil)

	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	tokens := service.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationTime, cfg.JWT.Issuer)
	otpService := service.NewOtpService(userRepo, otpRepo, mailer.NewGuardedSender(mail, breaker), service.OtpConfig{
		TTL:     cfg.Auth.OtpTTL,
		From:    "Helpdesk <noreply@example.com>",
		AppName: "Helpdesk",
	})
	authService := service.NewAuthService(db, userRepo, otpRepo, tokens)
	userService := service.NewUserService(userRepo)
	sessionMw := middleware.NewSessionMiddleware(service.NewSessionService(tokens, userRepo), middleware.CookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: tokens.TTL(),
	})

	engine := router.NewRouter(router.Handlers{
		Auth:      handler.NewAuthHandler(otpService, authService, sessionMw),
		Profile:   handler.NewProfileHandler(userService, sessionMw),
		User:      handler.NewUserHandler(userService),
		Category:  handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Setting:   handler.NewSettingHandler(service.NewSettingService(repository.NewSettingRepository(db))),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(userRepo, categoryRepo)),
		Health:    handler.NewHealthHandler(db, nil, breaker),
	}, sessionMw, limiter, cfg).SetupRoutes()

	return &server{engine: engine, db: db, mail: mail}
}

type request struct {
	method string
	path   string
	body   any
	cookie string
	bearer string
	header map[string]string
}

func (s *server) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.body))
	}

	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: r.cookie})
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

// signup runs the OTP flow over HTTP and returns the session cookie value.
func (s *server) signup(t *testing.T, email string) string {
	t.Helper()

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": email, "action": "signup"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{
		"name":     "Rizky Pratama",
		"email":    email,
		"phone":    "081298765432",
		"password": "secret123",
		"otp":      s.mail.lastCode(t),
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie.Value
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": email, "password": password}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func TestOtpResponseNeverCarriesCode(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "signup"}})
	require.Equal(t, http.StatusOK, rec.Code)

	s.mail.lastCode(t)
	out := decode(t, rec)
	assert.Len(t, out, 2)
	assert.Contains(t, out, "message")
	assert.Contains(t, out, "expires_at")
}

func TestOtpCooldownSetsRetryAfter(t *testing.T) {
	s := newServer(t)
	body := gin.H{"email": "nia@example.com", "action": "signup"}

	require.Equal(t, http.StatusOK, s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: body}).Code)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: body})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OTP_ALREADY_SENT", decode(t, rec)["code"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestOtpRequestValidation(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "not-an-email", "action": "signup"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])

	rec = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "reset"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupSetsSessionCookie(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "signup"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{
		"name":     "Nia Ramadhani",
		"email":    "nia@example.com",
		"phone":    "081298765432",
		"password": "secret123",
		"otp":      s.mail.lastCode(t),
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	out := decode(t, rec)
	assert.Equal(t, "/tickets", out["redirect"])
	assert.Equal(t, "USER", out["user"].(map[string]any)["role"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignupWithWrongOtp(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusOK, s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "signup"}}).Code)
	code := s.mail.lastCode(t)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{
		"name":     "Nia Ramadhani",
		"email":    "nia@example.com",
		"phone":    "081298765432",
		"password": "secret123",
		"otp":      wrong,
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_OTP", decode(t, rec)["code"])
	assert.Nil(t, sessionCookie(rec))
}

func TestSignupRejectsPasswordBeyondBcryptLimit(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusOK, s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "signup"}}).Code)

	for _, password := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{
			"name":     "Nia Ramadhani",
			"email":    "nia@example.com",
			"phone":    "081298765432",
			"password": password,
			"otp":      s.mail.lastCode(t),
		}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])
	}
}

func TestSignupOtpStopsWorkingAfterRepeatedGuesses(t *testing.T) {
	s := newServer(t)

	require.Equal(t, http.StatusOK, s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/otp", body: gin.H{"email": "nia@example.com", "action": "signup"}}).Code)
	code := s.mail.lastCode(t)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	signup := func(otp string) *httptest.ResponseRecorder {
		return s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/signup", body: gin.H{
			"name":     "Nia Ramadhani",
			"email":    "nia@example.com",
			"phone":    "081298765432",
			"password": "secret123",
			"otp":      otp,
		}})
	}

	for i := 0; i < constants.MaxOtpAttempts; i++ {
		require.Equal(t, http.StatusUnauthorized, signup(wrong).Code)
	}

	rec := signup(code)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_OTP", decode(t, rec)["code"])
}

// denyAll rejects every throttled call with a 10 second reset.
type denyAll struct{}

func (denyAll) reply(ctx context.Context) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	cmd.SetVal([]interface{}{int64(0), int64(0), time.Now().Add(10 * time.Second).UnixMilli()})
	return cmd
}

func (d denyAll) Eval(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return d.reply(ctx)
}

func (d denyAll) EvalSha(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return d.reply(ctx)
}

func (d denyAll) EvalRO(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return d.reply(ctx)
}

func (d denyAll) EvalShaRO(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	return d.reply(ctx)
}

func (denyAll) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (denyAll) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestAuthRoutesAreThrottled(t *testing.T) {
	s := newServerWithLimiter(t, ratelimit.NewLimiter(denyAll{}, "helpdesk:throttle"))

	for _, path := range []string{"/api/v1/auth/otp", "/api/v1/auth/signup", "/api/v1/auth/login"} {
		rec := s.do(t, request{method: http.MethodPost, path: path, body: gin.H{}})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"), path)
	}
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	s := newServer(t)
	s.signup(t, "nia@example.com")

	wrongPassword := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "nia@example.com", "password": "wrong-password"}})
	unknownEmail := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "ghost@example.com", "password": "wrong-password"}})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Nil(t, sessionCookie(wrongPassword))
}

func TestLoginRedirectsByRole(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": adminEmail, "password": adminPassword}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin/dashboard", decode(t, rec)["redirect"])
	assert.NotNil(t, sessionCookie(rec))
}

func TestSessionFromCookieOrBearer(t *testing.T) {
	s := newServer(t)
	token := s.signup(t, "nia@example.com")

	byCookie := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", cookie: token})
	require.Equal(t, http.StatusOK, byCookie.Code)
	assert.Equal(t, "nia@example.com", decode(t, byCookie)["user"].(map[string]any)["email"])

	byBearer := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: token})
	require.Equal(t, http.StatusOK, byBearer.Code)

	anonymous := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
}

func TestStaleCookieFallsBackToBearer(t *testing.T) {
	s := newServer(t)
	token := s.signup(t, "nia@example.com")

	rec := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", cookie: "stale-garbage", bearer: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "nia@example.com", decode(t, rec)["user"].(map[string]any)["email"])

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestInvalidCookieIsCleared(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", cookie: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestLogoutIsIdempotent(t *testing.T) {
	s := newServer(t)
	token := s.signup(t, "nia@example.com")

	for i := 0; i < 2; i++ {
		rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/logout", cookie: token})
		require.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
	}

	rec := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/logout"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeletedAccountTokenStopsWorking(t *testing.T) {
	s := newServer(t)
	token := s.signup(t, "nia@example.com")

	rec := s.do(t, request{method: http.MethodDelete, path: "/api/v1/profile", bearer: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, request{method: http.MethodGet, path: "/api/v1/profile", bearer: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesGateByRole(t *testing.T) {
	s := newServer(t)
	userToken := s.signup(t, "nia@example.com")
	adminToken := s.login(t, adminEmail, adminPassword)

	anonymous := s.do(t, request{method: http.MethodGet, path: "/api/v1/users"})
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	asUser := s.do(t, request{method: http.MethodGet, path: "/api/v1/users", bearer: userToken})
	assert.Equal(t, http.StatusForbidden, asUser.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, asUser)["code"])

	asAdmin := s.do(t, request{method: http.MethodGet, path: "/api/v1/users", bearer: adminToken})
	require.Equal(t, http.StatusOK, asAdmin.Code, asAdmin.Body.String())
	assert.EqualValues(t, 2, decode(t, asAdmin)["total_docs"])

	dashboard := s.do(t, request{method: http.MethodGet, path: "/api/v1/dashboard", bearer: userToken})
	assert.Equal(t, http.StatusForbidden, dashboard.Code)
}

func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	s := newServer(t)
	userToken := s.signup(t, "nia@example.com")
	adminToken := s.login(t, adminEmail, adminPassword)

	me := decode(t, s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: userToken}))
	id := int(me["user"].(map[string]any)["id"].(float64))

	rec := s.do(t, request{
		method: http.MethodPatch,
		path:   "/api/v1/users/" + strconv.Itoa(id) + "/role",
		bearer: adminToken,
		body:   gin.H{"role": "EMPLOYEE"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	me = decode(t, s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", bearer: userToken}))
	assert.Equal(t, "/employee/tickets", me["redirect"])
}

func TestSuspiciousPathsBlocked(t *testing.T) {
	s := newServer(t)

	for _, path := range []string{"/.env", "/wp-admin/setup.php", "/index.php"} {
		rec := s.do(t, request{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodGet, path: "/api/v1/health"})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, "healthy", out["status"])
	checks := out["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["redis"].(map[string]any)["status"])
}

func TestRequestIDEchoed(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, request{method: http.MethodGet, path: "/health", header: map[string]string{"X-Request-ID": "req-42"}})
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = s.do(t, request{method: http.MethodGet, path: "/health"})
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
