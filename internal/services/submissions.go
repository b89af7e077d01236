package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

// Submissions implements the create-on-submit forms owned by a signed-in
// user, plus the public contact form.
type Submissions struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewSubmissions(db *sql.DB, log zerolog.Logger) *Submissions {
	return &Submissions{DB: db, Log: log}
}

// --- Reviews ---

type ReviewInput struct {
	Rating     int    `form:"rating" json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `form:"review_text" json:"review_text" validate:"required"`
}

// SubmitReview stores a review of an existing product by userID.
func (s *Submissions) SubmitReview(ctx context.Context, userID, productID int64, in ReviewInput) (*models.Review, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	text := in.ReviewText
	review := &models.Review{
		UserID:     userID,
		ProductID:  productID,
		Rating:     in.Rating,
		ReviewText: &text,
		CreatedAt:  time.Now().UTC(),
	}

	err := database.WithTx(ctx, s.DB, nil, func(tx *sql.Tx) error {
		if _, err := store.GetProduct(ctx, tx, productID); err != nil {
			return err
		}
		return store.CreateReview(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWrite("review")
	s.Log.Info().Int64("user_id", userID).Int64("product_id", productID).Int("rating", in.Rating).Msg("review submitted")
	return review, nil
}

// --- Addresses ---

type AddressInput struct {
	AddressType string `form:"address_type" json:"address_type" validate:"required,oneof=shipping billing"`
	Street      string `form:"street" json:"street" validate:"required,max=200"`
	City        string `form:"city" json:"city" validate:"required,max=100"`
	State       string `form:"state" json:"state" validate:"max=100"`
	ZipCode     string `form:"zip_code" json:"zip_code" validate:"required,max=20"`
	Country     string `form:"country" json:"country" validate:"required,max=100"`
}

func (s *Submissions) AddAddress(ctx context.Context, userID int64, in AddressInput) (*models.Address, error) {
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	in.Country = strings.TrimSpace(in.Country)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	addr := &models.Address{
		UserID:      userID,
		AddressType: in.AddressType,
		Street:      in.Street,
		City:        in.City,
		ZipCode:     in.ZipCode,
		Country:     in.Country,
	}
	if in.State != "" {
		state := in.State
		addr.State = &state
	}

	if err := store.CreateAddress(ctx, s.DB, addr); err != nil {
		return nil, err
	}

	metrics.RecordWrite("address")
	return addr, nil
}

// --- Support tickets ---

// TicketInput holds the support form. Priority defaults to Medium.
type TicketInput struct {
	Subject     string `form:"subject" json:"subject" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"required"`
	Priority    string `form:"priority" json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

func (s *Submissions) OpenSupportTicket(ctx context.Context, userID int64, in TicketInput) (*models.SupportTicket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	ticket := &models.SupportTicket{
		UserID:      userID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      models.TicketStatusOpen,
		Priority:    in.Priority,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateTicket(ctx, s.DB, ticket); err != nil {
		return nil, err
	}

	metrics.RecordWrite("support_ticket")
	s.Log.Info().Int64("user_id", userID).Int64("ticket_id", ticket.ID).Str("priority", ticket.Priority).Msg("support ticket opened")
	return ticket, nil
}

// TicketThread is a ticket with its chat messages in posting order.
type TicketThread struct {
	Ticket   *models.SupportTicket `json:"ticket"`
	Messages []models.ChatMessage  `json:"messages"`
}

// ownTicket loads a ticket and hides it from anyone but its owner.
func ownTicket(ctx context.Context, q store.DBTX, userID, ticketID int64) (*models.SupportTicket, error) {
	t, err := store.GetTicket(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, apperr.NewNotFoundError("support ticket", ticketID)
	}
	return t, nil
}

func (s *Submissions) Ticket(ctx context.Context, userID, ticketID int64) (*TicketThread, error) {
	thread := &TicketThread{}
	err := database.WithTx(ctx, s.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		var err error
		if thread.Ticket, err = ownTicket(ctx, tx, userID, ticketID); err != nil {
			return err
		}
		thread.Messages, err = store.MessagesForTicket(ctx, tx, ticketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

type MessageInput struct {
	Message string `form:"message" json:"message" validate:"required"`
}

// PostTicketMessage appends a chat message to one of the user's tickets.
func (s *Submissions) PostTicketMessage(ctx context.Context, userID, ticketID int64, in MessageInput) (*models.ChatMessage, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	author := userID
	msg := &models.ChatMessage{
		SupportTicketID: ticketID,
		UserID:          &author,
		Message:         in.Message,
		Timestamp:       time.Now().UTC(),
	}

	err := database.WithTx(ctx, s.DB, nil, func(tx *sql.Tx) error {
		if _, err := ownTicket(ctx, tx, userID, ticketID); err != nil {
			return err
		}
		return store.CreateChatMessage(ctx, tx, msg)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWrite("chat_message")
	return msg, nil
}

// --- Contact ---

type ContactInput struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=80"`
	LastName  string `form:"last_name" json:"last_name" validate:"required,max=80"`
	Email     string `form:"email" json:"email" validate:"required,email,max=120"`
	Message   string `form:"message" json:"message" validate:"required"`
}

// SubmitContact stores a contact message. Each email may submit once.
func (s *Submissions) SubmitContact(ctx context.Context, in ContactInput) (*models.Contact, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateContact(ctx, s.DB, contact); err != nil {
		return nil, err
	}

	metrics.RecordWrite("contact")
	return contact, nil
}
