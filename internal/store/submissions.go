package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// --- Reviews ---

func CreateReview(ctx context.Context, q DBTX, r *models.Review) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO reviews (user_id, product_id, rating, review_text, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.UserID, r.ProductID, r.Rating, r.ReviewText, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	r.ID = id
	return nil
}

func scanReviews(ctx context.Context, q DBTX, query string, args ...any) ([]models.Review, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.ReviewText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func ReviewsForProduct(ctx context.Context, q DBTX, productID int64) ([]models.Review, error) {
	return scanReviews(ctx, q, `SELECT id, user_id, product_id, rating, review_text, created_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC, id DESC`, productID)
}

func ReviewsForUser(ctx context.Context, q DBTX, userID int64) ([]models.Review, error) {
	return scanReviews(ctx, q, `SELECT id, user_id, product_id, rating, review_text, created_at
		FROM reviews WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// AverageRating returns nil when the product has no reviews.
func AverageRating(ctx context.Context, q DBTX, productID int64) (*float64, error) {
	var avg sql.NullFloat64
	if err := q.QueryRowContext(ctx, `SELECT AVG(rating) FROM reviews WHERE product_id = ?`, productID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// --- Addresses ---

func CreateAddress(ctx context.Context, q DBTX, a *models.Address) error {
	res, err := q.ExecContext(ctx, `INSERT INTO addresses
		(user_id, address_type, street, city, state, zip_code, country) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.AddressType, a.Street, a.City, a.State, a.ZipCode, a.Country)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	a.ID = id
	return nil
}

func AddressesForUser(ctx context.Context, q DBTX, userID int64) ([]models.Address, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, user_id, address_type, street, city, state, zip_code, country
		FROM addresses WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.AddressType, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// --- Support tickets ---

const ticketColumns = `id, user_id, subject, description, status, priority, created_at, resolved_at`

func scanTicket(row rowScanner) (*models.SupportTicket, error) {
	var t models.SupportTicket
	if err := row.Scan(&t.ID, &t.UserID, &t.Subject, &t.Description, &t.Status, &t.Priority,
		&t.CreatedAt, &t.ResolvedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTicket(ctx context.Context, q DBTX, t *models.SupportTicket) error {
	res, err := q.ExecContext(ctx, `INSERT INTO support_tickets
		(user_id, subject, description, status, priority, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Subject, t.Description, t.Status, t.Priority, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert support ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert support ticket: %w", err)
	}
	t.ID = id
	return nil
}

func GetTicket(ctx context.Context, q DBTX, id int64) (*models.SupportTicket, error) {
	t, err := scanTicket(q.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "support ticket", id)
	}
	return t, nil
}

func TicketsForUser(ctx context.Context, q DBTX, userID int64) ([]models.SupportTicket, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list support tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.SupportTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan support ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func CreateChatMessage(ctx context.Context, q DBTX, m *models.ChatMessage) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO chat_messages (support_ticket_id, user_id, message, timestamp) VALUES (?, ?, ?, ?)`,
		m.SupportTicketID, m.UserID, m.Message, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	m.ID = id
	return nil
}

func MessagesForTicket(ctx context.Context, q DBTX, ticketID int64) ([]models.ChatMessage, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, support_ticket_id, user_id, message, timestamp
		FROM chat_messages WHERE support_ticket_id = ? ORDER BY timestamp ASC, id ASC`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SupportTicketID, &m.UserID, &m.Message, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// --- Contacts ---

// CreateContact inserts c. A second message from the same email yields a ConflictError.
func CreateContact(ctx context.Context, q DBTX, c *models.Contact) error {
	res, err := q.ExecContext(ctx, `INSERT INTO contacts (first_name, last_name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)`, c.FirstName, c.LastName, c.Email, c.Message, c.CreatedAt)
	if err != nil {
		return conflictFromDuplicate(fmt.Errorf("insert contact: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID = id
	return nil
}
