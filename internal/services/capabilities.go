package services

import (
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/models"
)

// IsAuthenticated reports whether s is a live session bound to a user.
func IsAuthenticated(s *auth.Session) bool {
	return s != nil && s.ID != "" && s.UserID > 0
}

// IsAdmin reports whether u holds the admin capability.
func IsAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin
}
