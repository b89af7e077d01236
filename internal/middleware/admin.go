package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

// ContextUser is set by RequireAdmin to the loaded admin user.
const ContextUser = "user"

// NoAccessMessage is flashed to non-admins turned away from admin pages.
const NoAccessMessage = "You do not have access to that page."

// UserLoader fetches a user by id.
type UserLoader interface {
	User(ctx context.Context, id int64) (*models.User, error)
}

// RequireAdmin must run after RequireAuth. It loads the signed-in user and
// sends anyone without the admin capability back to the home page.
func RequireAdmin(users UserLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get userID from LoadSession
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		// 2. Load the user
		user, err := users.User(c.Request.Context(), userID)
		if err != nil && !apperr.IsNotFound(err) {
			log.Error().Err(err).Int64("user_id", userID).Msg("admin check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking access"})
			c.Abort()
			return
		}

		// 3. Check the capability
		if user == nil || !user.IsAdmin {
			log.Warn().Int64("user_id", userID).Str("path", c.Request.URL.Path).Msg("admin access denied")
			SetFlash(c, NoAccessMessage)
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		// 4. Success! Add the user to context and proceed.
		c.Set(ContextUser, user)
		c.Next()
	}
}
