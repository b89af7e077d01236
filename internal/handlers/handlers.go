package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/services"
)

// SessionTokens signs and checks the session cookie value.
type SessionTokens interface {
	GenerateToken(sessionID string, userID int64) (string, error)
	ValidateToken(token string) (sessionID string, userID int64, err error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB          *sql.DB // used by the health check only
	Accounts    *services.Accounts
	Catalog     *services.Catalog
	Submissions *services.Submissions
	Tokens      SessionTokens
	Log         zerolog.Logger

	CookieSecure bool
	SessionTTL   time.Duration
	UploadDir    string
	BaseURL      string
}

const genericErrorMessage = "Something went wrong. Please try again."

// respondError maps the service error taxonomy onto HTTP responses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var (
		verr     *apperr.ValidationError
		conflict *apperr.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please correct the highlighted fields.", "fields": verr.Fields})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":  conflict.Error(),
			"fields": gin.H{conflict.Field: conflict.Error()},
		})
	case apperr.IsAuth(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.CredentialsMessage})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsForbidden(err):
		c.Redirect(http.StatusSeeOther, "/")
	default:
		_ = c.Error(err)
		h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
	}
}

// bind decodes a form or JSON body into obj. Field rules are checked by the
// services, so only decoding failures surface here.
func bind(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return apperr.NewValidationError("form", "Invalid form submission.")
	}
	return nil
}

// paramID parses a positive integer path parameter. It answers 404 itself
// when the value is malformed.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// currentUserID reads the id set by middleware.LoadSession. Routes using it
// sit behind middleware.RequireAuth.
func currentUserID(c *gin.Context) int64 {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// formContext is the render context handed to a form page.
func formContext(c *gin.Context, form string, extra gin.H) gin.H {
	ctx := gin.H{"form": form}
	if flash := middleware.PopFlash(c); flash != "" {
		ctx["flash"] = flash
	}
	if _, ok := middleware.CurrentSession(c); ok {
		ctx["userID"] = currentUserID(c)
	}
	for k, v := range extra {
		ctx[k] = v
	}
	return ctx
}

// redirectWithFlash answers a successful POST.
func redirectWithFlash(c *gin.Context, location, message string) {
	if message != "" {
		middleware.SetFlash(c, message)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// safeNext returns next when it is a local path, else fallback.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
