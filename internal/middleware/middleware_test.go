package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type storeResolver struct {
	store *auth.MemoryStore
}

func (r storeResolver) ResolveSession(ctx context.Context, sessionID string, userID int64) (*auth.Session, error) {
	s, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, auth.ErrSessionNotFound
	}
	return s, nil
}

type fakeUsers map[int64]*models.User

func (f fakeUsers) User(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFoundError("user", id)
}

type failingUsers struct{}

func (failingUsers) User(context.Context, int64) (*models.User, error) {
	return nil, errors.New("connection refused")
}

type sessionFixture struct {
	signer *auth.Signer
	store  *auth.MemoryStore
}

func newSessionFixture() *sessionFixture {
	return &sessionFixture{
		signer: auth.NewSigner([]byte(testSecret), time.Hour),
		store:  auth.NewMemoryStore(time.Hour),
	}
}

func (f *sessionFixture) login(t *testing.T, userID int64) (*auth.Session, *http.Cookie) {
	t.Helper()
	s, err := f.store.Create(context.Background(), userID, models.StatusActive)
	require.NoError(t, err)
	token, err := f.signer.GenerateToken(s.ID, userID)
	require.NoError(t, err)
	return s, &http.Cookie{Name: SessionCookie, Value: token}
}

func (f *sessionFixture) router(users UserLoader) *gin.Engine {
	r := gin.New()
	r.Use(LoadSession(f.signer, storeResolver{f.store}, false, zerolog.Nop()))

	r.GET("/", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": id})
	})

	authed := r.Group("/")
	authed.Use(RequireAuth())
	authed.GET("/account", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": id})
	})

	admin := authed.Group("/admin")
	admin.Use(RequireAdmin(users, zerolog.Nop()))
	admin.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r http.Handler, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthRedirectsAnonymousToLogin(t *testing.T) {
	f := newSessionFixture()
	rec := serve(f.router(fakeUsers{}), http.MethodGet, "/account?tab=orders")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Faccount%3Ftab%3Dorders", rec.Header().Get("Location"))
}

func TestLoadSessionAttachesUser(t *testing.T) {
	f := newSessionFixture()
	_, cookie := f.login(t, 7)

	rec := serve(f.router(fakeUsers{}), http.MethodGet, "/account", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":7}`, rec.Body.String())
}

func TestDeletedSessionIsAnonymous(t *testing.T) {
	f := newSessionFixture()
	s, cookie := f.login(t, 7)
	require.NoError(t, f.store.Delete(context.Background(), s.ID))

	rec := serve(f.router(fakeUsers{}), http.MethodGet, "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":0}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestTamperedTokenIsAnonymous(t *testing.T) {
	f := newSessionFixture()
	_, cookie := f.login(t, 7)
	cookie.Value += "x"

	rec := serve(f.router(fakeUsers{}), http.MethodGet, "/account", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newSessionFixture()
	users := fakeUsers{
		1: {ID: 1, Username: "root", IsAdmin: true},
		2: {ID: 2, Username: "ann"},
	}
	r := f.router(users)

	t.Run("admin passes", func(t *testing.T) {
		_, cookie := f.login(t, 1)
		rec := serve(r, http.MethodGet, "/admin/dashboard", cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin goes home with a flash", func(t *testing.T) {
		_, cookie := f.login(t, 2)
		rec := serve(r, http.MethodGet, "/admin/dashboard", cookie)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Contains(t, rec.Header().Values("Set-Cookie")[0], flashCookie+"=")
	})

	t.Run("anonymous goes to login", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/admin/dashboard")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?next=%2Fadmin%2Fdashboard", rec.Header().Get("Location"))
	})
}

func TestRequireAdminStoreError(t *testing.T) {
	f := newSessionFixture()
	_, cookie := f.login(t, 1)

	rec := serve(f.router(failingUsers{}), http.MethodGet, "/admin/dashboard", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlashRoundTrip(t *testing.T) {
	r := gin.New()
	r.GET("/set", func(c *gin.Context) { SetFlash(c, NoAccessMessage) })
	r.GET("/pop", func(c *gin.Context) { c.String(http.StatusOK, PopFlash(c)) })

	set := serve(r, http.MethodGet, "/set")
	cookies := set.Result().Cookies()
	require.Len(t, cookies, 1)

	rec := serve(r, http.MethodGet, "/pop", cookies[0])
	assert.Equal(t, NoAccessMessage, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter(0.01, 2, zerolog.Nop())
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login").Code)

	rec := serve(r, http.MethodPost, "/login")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("Retry-After"))
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, zerolog.Nop())
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.getLimiter("10.0.0.1")
	clock = clock.Add(30 * time.Second)
	rl.getLimiter("10.0.0.2")
	clock = clock.Add(45 * time.Second)

	rl.Cleanup(time.Minute)
	assert.Equal(t, 1, rl.size())
}

func TestRequestLoggerUsesRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)), Metrics())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/products/42")

	out := buf.String()
	assert.Contains(t, out, `"route":"/products/:id"`)
	assert.Contains(t, out, `"path":"/products/42"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "2xx", statusLabel(http.StatusOK))
	assert.Equal(t, "3xx", statusLabel(http.StatusSeeOther))
	assert.Equal(t, "4xx", statusLabel(http.StatusTooManyRequests))
	assert.Equal(t, "5xx", statusLabel(http.StatusBadGateway))
}
