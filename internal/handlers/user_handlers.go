package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/services"
)

const logoutFailedMessage = "We could not record your logout, but you have been signed out."

// --- Registration ---

// RegisterForm is the handler for GET /register.
func (h *Handlers) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, formContext(c, "register", gin.H{
		"fields": []string{"username", "email", "password", "confirm_password"},
	}))
}

// Register is the handler for POST /register. It does not log the user in.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind Input ---
	var input services.RegisterInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Create the Account ---
	if _, err := h.Accounts.Register(c.Request.Context(), input); err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Send to Login ---
	redirectWithFlash(c, "/login", "Your account has been created. You can now log in.")
}

// --- Login ---

// LoginForm is the handler for GET /login.
func (h *Handlers) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, formContext(c, "login", gin.H{
		"fields":   []string{"email", "password", "status", "remember"},
		"statuses": []string{models.StatusActive, models.StatusInactive},
		"next":     safeNext(c.Query("next"), ""),
	}))
}

// Login is the handler for POST /login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind Input ---
	var input services.LoginInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Authenticate & Open Session ---
	result, err := h.Accounts.Authenticate(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Sign the Session Token ---
	token, err := h.Tokens.GenerateToken(result.Session.ID, result.User.ID)
	if err != nil {
		// The session is unusable without a token; undo the login.
		if undoErr := h.Accounts.Logout(context.WithoutCancel(c.Request.Context()), result.Session, models.StatusInactive); undoErr != nil {
			h.Log.Error().Err(undoErr).Int64("user_id", result.User.ID).Msg("failed to undo login")
		}
		h.respondError(c, err)
		return
	}

	// 4. --- Set Cookie ---
	maxAge := 0
	if input.Remember {
		maxAge = int(h.SessionTTL / time.Second)
	}
	middleware.SetSessionCookie(c, token, maxAge, h.CookieSecure)

	// 5. --- Redirect ---
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	c.Redirect(http.StatusSeeOther, safeNext(next, "/"))
}

// --- Logout ---

// Logout is the handler for GET /logout. The session ends even when the status
// write fails; the user is then told via a flash message.
func (h *Handlers) Logout(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)

	err := h.Accounts.Logout(c.Request.Context(), session, c.Query("status"))
	middleware.ClearSessionCookie(c, h.CookieSecure)
	if err != nil {
		h.Log.Error().Err(err).Int64("user_id", session.UserID).Msg("logout incomplete")
		redirectWithFlash(c, "/", logoutFailedMessage)
		return
	}

	redirectWithFlash(c, "/", "You have been logged out.")
}

// --- Account ---

// Account is the handler for GET /account.
func (h *Handlers) Account(c *gin.Context) {
	overview, err := h.Accounts.Overview(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// AccountOrder is the handler for GET /account/orders/:id.
func (h *Handlers) AccountOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.Accounts.Order(c.Request.Context(), currentUserID(c), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
