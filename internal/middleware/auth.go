package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/auth"
)

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "session"

// Context keys set by LoadSession.
const (
	ContextUserID  = "userID"
	ContextSession = "session"
)

// TokenValidator verifies a session token and returns the ids it names.
type TokenValidator interface {
	ValidateToken(token string) (sessionID string, userID int64, err error)
}

// SessionResolver looks up the live session behind a token.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string, userID int64) (*auth.Session, error)
}

// LoadSession attaches the caller's session to the request when the cookie
// carries a valid token for a live session. Requests without one continue
// anonymously; a stale cookie is cleared.
func LoadSession(tokens TokenValidator, sessions SessionResolver, secure bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the cookie. No cookie means an anonymous request.
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		// 2. Verify the signature and expiry.
		sessionID, userID, err := tokens.ValidateToken(token)
		if err != nil {
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}

		// 3. The token is only good while its server-side session exists.
		session, err := sessions.ResolveSession(c.Request.Context(), sessionID, userID)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				log.Error().Err(err).Msg("session lookup failed")
			}
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}

		// 4. Hand the identity to the handlers.
		c.Set(ContextUserID, session.UserID)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page, keeping the
// requested path in "next".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session LoadSession attached, if any.
func CurrentSession(c *gin.Context) (*auth.Session, bool) {
	raw, exists := c.Get(ContextSession)
	if !exists {
		return nil, false
	}
	session, ok := raw.(*auth.Session)
	return session, ok && session != nil
}

// CurrentUserID returns the signed-in user's id, if any.
func CurrentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int64)
	return id, ok
}

// SetSessionCookie stores token in an HttpOnly cookie. maxAge is in seconds;
// zero makes it a browser-session cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
