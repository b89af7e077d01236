package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var userCols = []string{"id", "username", "email", "password", "active", "status", "is_admin",
	"fullname", "phone", "date_of_birth", "gender", "created_at"}

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router   *gin.Engine
	mock     sqlmock.Sqlmock
	sessions *auth.MemoryStore
	signer   *auth.Signer
}

func newTestApp(t *testing.T, opts Options) *testApp {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	sessions := auth.NewMemoryStore(time.Hour)
	accounts, err := services.NewAccounts(db, sessions, log)
	require.NoError(t, err)
	signer := auth.NewSigner([]byte(testSecret), time.Hour)

	h := &handlers.Handlers{
		DB:          db,
		Accounts:    accounts,
		Catalog:     services.NewCatalog(db, log),
		Submissions: services.NewSubmissions(db, log),
		Tokens:      signer,
		Log:         log,
		SessionTTL:  time.Hour,
		UploadDir:   t.TempDir(),
		BaseURL:     "http://localhost:8080",
	}
	return &testApp{router: SetupRouter(h, opts), mock: mock, sessions: sessions, signer: signer}
}

// signIn creates a live session for userID and returns its cookie.
func (a *testApp) signIn(t *testing.T, userID int64) (*auth.Session, *http.Cookie) {
	t.Helper()
	s, err := a.sessions.Create(context.Background(), userID, models.StatusActive)
	require.NoError(t, err)
	token, err := a.signer.GenerateToken(s.ID, userID)
	require.NoError(t, err)
	return s, &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (a *testApp) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func userRow(id int64, hash string, isAdmin bool) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, "ann", "ann@example.com", hash, true, models.StatusActive, isAdmin, nil, nil, nil, nil, time.Now())
}

func productForm() url.Values {
	return url.Values{
		"name": {"Desk Lamp"}, "description": {"Warm light"}, "sku": {"LAMP-1"},
		"price": {"19.99"}, "discount_price": {""}, "stock": {"3"}, "category_id": {"2"},
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestNonAdminCannotAddProduct(t *testing.T) {
	app := newTestApp(t, Options{})
	_, cookie := app.signIn(t, 2)

	app.mock.ExpectQuery("FROM users WHERE id").WithArgs(int64(2)).WillReturnRows(userRow(2, "hash", false))

	rec := app.do(http.MethodPost, "/admin/add_product", productForm(), cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	// Only the user lookup ran: no transaction, no INSERT.
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestAdminAddsProduct(t *testing.T) {
	app := newTestApp(t, Options{})
	_, cookie := app.signIn(t, 1)

	app.mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow(1, "hash", true))
	app.mock.ExpectBegin()
	app.mock.ExpectQuery("FROM categories WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(2, "Lighting", "lighting"))
	app.mock.ExpectQuery("FROM products WHERE sku").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	app.mock.ExpectExec("INSERT INTO products").
		WithArgs(int64(2), "Desk Lamp", "Warm light", nil, "LAMP-1", 19.99, nil, 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	app.mock.ExpectCommit()

	rec := app.do(http.MethodPost, "/admin/add_product", productForm(), cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestAdminAddProductNegativePrice(t *testing.T) {
	app := newTestApp(t, Options{})
	_, cookie := app.signIn(t, 1)

	app.mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow(1, "hash", true))

	form := productForm()
	form.Set("price", "-1")
	rec := app.do(http.MethodPost, "/admin/add_product", form, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price"`)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestAnonymousAdminRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, Options{})

	rec := app.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fadmin", rec.Header().Get("Location"))
}

func TestLoginThenLogout(t *testing.T) {
	app := newTestApp(t, Options{})

	var pw models.Password
	require.NoError(t, pw.Set("s3cret-pass"))

	// 1. Log in and follow "next".
	app.mock.ExpectQuery("FROM users WHERE email").WithArgs("ann@example.com").WillReturnRows(userRow(7, pw.Hash, false))
	app.mock.ExpectBegin()
	app.mock.ExpectExec("UPDATE users SET status").WithArgs(models.StatusActive, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectCommit()

	rec := app.do(http.MethodPost, "/login", url.Values{
		"email": {"ann@example.com"}, "password": {"s3cret-pass"}, "next": {"/account"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, 1, app.sessions.Len())

	// 2. Log out.
	app.mock.ExpectBegin()
	app.mock.ExpectExec("UPDATE users SET status").WithArgs(models.StatusInactive, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectCommit()

	rec = app.do(http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 0, app.sessions.Len())
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	app := newTestApp(t, Options{})

	var pw models.Password
	require.NoError(t, pw.Set("s3cret-pass"))
	app.mock.ExpectQuery("FROM users WHERE email").WillReturnRows(userRow(7, pw.Hash, false))
	app.mock.ExpectBegin()
	app.mock.ExpectExec("UPDATE users SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	app.mock.ExpectCommit()

	rec := app.do(http.MethodPost, "/login?next=//evil.example", url.Values{
		"email": {"ann@example.com"}, "password": {"s3cret-pass"},
	})
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutStillEndsSessionWhenStatusWriteFails(t *testing.T) {
	app := newTestApp(t, Options{})
	_, cookie := app.signIn(t, 7)

	app.mock.ExpectBegin()
	app.mock.ExpectExec("UPDATE users SET status").WillReturnError(errors.New("deadlock found"))
	app.mock.ExpectRollback()

	rec := app.do(http.MethodGet, "/logout?status=inactive", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, app.sessions.Len())
	assert.Contains(t, rec.Header().Values("Set-Cookie"), "flash=We+could+not+record+your+logout%2C+but+you+have+been+signed+out.; Path=/; Max-Age=60; HttpOnly; SameSite=Lax")

	// The old cookie no longer opens protected pages.
	rec = app.do(http.MethodGet, "/account", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestLoginFailuresShareMessage(t *testing.T) {
	app := newTestApp(t, Options{})

	app.mock.ExpectQuery("FROM users WHERE email").WillReturnRows(sqlmock.NewRows(userCols))
	rec := app.do(http.MethodPost, "/login", url.Values{"email": {"ghost@example.com"}, "password": {"x"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.CredentialsMessage)
	assert.Nil(t, sessionCookie(rec))
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	app := newTestApp(t, Options{})

	app.mock.ExpectBegin()
	app.mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"u", "e"}).AddRow(1, 0))
	app.mock.ExpectRollback()

	rec := app.do(http.MethodPost, "/register", url.Values{
		"username": {"ann"}, "email": {"new@example.com"}, "password": {"pw"}, "confirm_password": {"pw"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username"`)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestRegisterRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, Options{})

	app.mock.ExpectBegin()
	app.mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows([]string{"u", "e"}).AddRow(0, 0))
	app.mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(3, 1))
	app.mock.ExpectCommit()

	rec := app.do(http.MethodPost, "/register", url.Values{
		"username": {"ann"}, "email": {"ann@example.com"}, "password": {"pw"}, "confirm_password": {"pw"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(rec))
}

func TestSubmitReviewRequiresSession(t *testing.T) {
	app := newTestApp(t, Options{})

	rec := app.do(http.MethodPost, "/review/new/3", url.Values{"rating": {"5"}, "review_text": {"great"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Freview%2Fnew%2F3", rec.Header().Get("Location"))
}

func TestSubmitReviewOutOfRange(t *testing.T) {
	app := newTestApp(t, Options{})
	_, cookie := app.signIn(t, 7)

	rec := app.do(http.MethodPost, "/review/new/3", url.Values{"rating": {"6"}, "review_text": {"great"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating"`)
}

func TestAuthRateLimit(t *testing.T) {
	app := newTestApp(t, Options{AuthLimiter: middleware.NewRateLimiter(0.001, 1, zerolog.Nop())})

	first := app.do(http.MethodPost, "/login", url.Values{})
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := app.do(http.MethodPost, "/login", url.Values{})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOperationalRoutes(t *testing.T) {
	app := newTestApp(t, Options{})

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/healthz", nil).Code)

	rec := app.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}

func TestMalformedProductID(t *testing.T) {
	app := newTestApp(t, Options{})

	rec := app.do(http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
