package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

// Accounts implements registration, login, logout and the account overview.
type Accounts struct {
	DB       *sql.DB
	Sessions auth.SessionStore
	Log      zerolog.Logger

	// dummyHash is compared against when the email is unknown so both failure
	// paths cost one bcrypt comparison.
	dummyHash string
}

func NewAccounts(db *sql.DB, sessions auth.SessionStore, log zerolog.Logger) (*Accounts, error) {
	var dummy models.Password
	if err := dummy.Set("storefront-timing-equalizer"); err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Accounts{DB: db, Sessions: sessions, Log: log, dummyHash: dummy.Hash}, nil
}

// --- Registration ---

// RegisterInput holds the registration form.
type RegisterInput struct {
	Username        string `form:"username" json:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" json:"email" validate:"required,email,max=120"`
	Password        string `form:"password" json:"password" validate:"required,max=72"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

// Register creates a user with a hashed password. It does not log the user in.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	// 1. --- Validate Input ---
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		metrics.RecordAuth(metrics.EventRegister, "invalid")
		return nil, err
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: password.Hash,
		Active:       true,
		Status:       models.StatusInactive,
		CreatedAt:    time.Now().UTC(),
	}

	// 3. --- Check Uniqueness & Insert ---
	err := database.WithTx(ctx, a.DB, nil, func(tx *sql.Tx) error {
		usernameTaken, emailTaken, err := store.UsernameOrEmailTaken(ctx, tx, user.Username, user.Email)
		if err != nil {
			return err
		}
		if emailTaken {
			return apperr.NewConflictError("email", "That email is already registered.")
		}
		if usernameTaken {
			return apperr.NewConflictError("username", "That username is taken. Please choose a different one.")
		}
		// The unique indexes still catch a concurrent registration.
		return store.CreateUser(ctx, tx, user)
	})
	if err != nil {
		if apperr.IsConflict(err) {
			metrics.RecordAuth(metrics.EventRegister, "conflict")
		}
		return nil, err
	}

	metrics.RecordAuth(metrics.EventRegister, "ok")
	a.Log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// --- Login ---

// LoginInput holds the login form. Status is optional and defaults to active.
type LoginInput struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=active inactive"`
	Remember bool   `form:"remember" json:"remember"`
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User    *models.User
	Session *auth.Session
}

// Authenticate verifies credentials, records the user's status and opens a
// session. Unknown email and wrong password return the same AuthError.
func (a *Accounts) Authenticate(ctx context.Context, in LoginInput) (*LoginResult, error) {
	// 1. --- Validate Input ---
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		metrics.RecordAuth(metrics.EventLogin, "invalid")
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}

	// 2. --- Find User By Email ---
	user, err := store.GetUserByEmail(ctx, a.DB, in.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			_, _ = (&models.Password{Hash: a.dummyHash}).Matches(in.Password)
			return nil, a.loginFailed("unknown_email")
		}
		return nil, err
	}

	// 3. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(in.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !match {
		return nil, a.loginFailed("bad_password")
	}
	if !user.Active {
		return nil, a.loginFailed("disabled")
	}

	// 4. --- Record Status ---
	err = database.WithTx(ctx, a.DB, nil, func(tx *sql.Tx) error {
		return store.UpdateUserStatus(ctx, tx, user.ID, status)
	})
	if err != nil {
		return nil, err
	}
	user.Status = status

	// 5. --- Open Session ---
	session, err := a.Sessions.Create(ctx, user.ID, status)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.RecordAuth(metrics.EventLogin, "ok")
	a.Log.Info().Int64("user_id", user.ID).Str("status", status).Msg("user logged in")
	return &LoginResult{User: user, Session: session}, nil
}

func (a *Accounts) loginFailed(reason string) error {
	metrics.RecordAuth(metrics.EventLogin, "rejected")
	a.Log.Warn().Str("reason", reason).Msg("login rejected")
	return &apperr.AuthError{}
}

// --- Logout ---

// Logout records the user's status and ends the session. The session is
// deleted even when the status update fails; that failure is returned so the
// caller can tell the user.
func (a *Accounts) Logout(ctx context.Context, session *auth.Session, status string) (err error) {
	if !IsAuthenticated(session) {
		return &apperr.AuthorizationError{Capability: "authenticated"}
	}
	if !models.ValidStatus(status) {
		status = models.StatusInactive
	}

	defer func() {
		// Teardown uses a fresh context so a cancelled request still ends the session.
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if delErr := a.Sessions.Delete(delCtx, session.ID); delErr != nil {
			a.Log.Error().Err(delErr).Str("session_id", session.ID).Msg("failed to delete session")
			if err == nil {
				err = delErr
			}
		}
	}()

	err = database.WithTx(ctx, a.DB, nil, func(tx *sql.Tx) error {
		return store.UpdateUserStatus(ctx, tx, session.UserID, status)
	})
	if err != nil {
		metrics.RecordAuth(metrics.EventLogout, "status_failed")
		a.Log.Warn().Err(err).Int64("user_id", session.UserID).Msg("logout status update rolled back")
		return fmt.Errorf("record logout status: %w", err)
	}

	metrics.RecordAuth(metrics.EventLogout, "ok")
	a.Log.Info().Int64("user_id", session.UserID).Str("status", status).Msg("user logged out")
	return nil
}

// --- Session lookup ---

// ResolveSession returns the live session a token names, or ErrSessionNotFound.
func (a *Accounts) ResolveSession(ctx context.Context, sessionID string, userID int64) (*auth.Session, error) {
	s, err := a.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, auth.ErrSessionNotFound
	}
	return s, nil
}

func (a *Accounts) User(ctx context.Context, id int64) (*models.User, error) {
	return store.GetUserByID(ctx, a.DB, id)
}

// --- Account overview ---

// AccountOverview is the user's profile with each relationship loaded
// explicitly.
type AccountOverview struct {
	User      *models.User           `json:"user"`
	Addresses []models.Address       `json:"addresses"`
	Orders    []models.Order         `json:"orders"`
	Reviews   []models.Review        `json:"reviews"`
	Tickets   []models.SupportTicket `json:"supportTickets"`
	Cart      *models.Cart           `json:"cart,omitempty"`
	CartItems []models.CartItem      `json:"cartItems"`
}

func (a *Accounts) Overview(ctx context.Context, userID int64) (*AccountOverview, error) {
	out := &AccountOverview{CartItems: []models.CartItem{}}

	err := database.WithTx(ctx, a.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		var err error
		if out.User, err = store.GetUserByID(ctx, tx, userID); err != nil {
			return err
		}
		if out.Addresses, err = store.AddressesForUser(ctx, tx, userID); err != nil {
			return err
		}
		if out.Orders, err = store.OrdersForUser(ctx, tx, userID); err != nil {
			return err
		}
		if out.Reviews, err = store.ReviewsForUser(ctx, tx, userID); err != nil {
			return err
		}
		if out.Tickets, err = store.TicketsForUser(ctx, tx, userID); err != nil {
			return err
		}
		if out.Cart, err = store.CartForUser(ctx, tx, userID); err != nil {
			return err
		}
		if out.Cart != nil {
			if out.CartItems, err = store.ItemsForCart(ctx, tx, out.Cart.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OrderDetail is one order with its line items and payments.
type OrderDetail struct {
	Order    *models.Order      `json:"order"`
	Items    []models.OrderItem `json:"items"`
	Payments []models.Payment   `json:"payments"`
}

// Order returns one of the user's orders. Orders of other users are reported
// as not found.
func (a *Accounts) Order(ctx context.Context, userID, orderID int64) (*OrderDetail, error) {
	out := &OrderDetail{}

	err := database.WithTx(ctx, a.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		var err error
		if out.Order, err = store.GetOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if out.Order.UserID != userID {
			return apperr.NewNotFoundError("order", orderID)
		}
		if out.Items, err = store.ItemsForOrder(ctx, tx, orderID); err != nil {
			return err
		}
		out.Payments, err = store.PaymentsForOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
