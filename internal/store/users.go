package store

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
)

const userColumns = `id, username, email, password, active, status, is_admin,
	fullname, phone, date_of_birth, gender, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active, &u.Status, &u.IsAdmin,
		&u.FullName, &u.Phone, &u.DateOfBirth, &u.Gender, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and sets its ID. Duplicate username or email yields a
// ConflictError.
func CreateUser(ctx context.Context, q DBTX, u *models.User) error {
	query := `INSERT INTO users (username, email, password, active, status, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Active, u.Status, u.IsAdmin, u.CreatedAt)
	if err != nil {
		return conflictFromDuplicate(fmt.Errorf("insert user: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

// UsernameOrEmailTaken reports which of the two unique identifiers already exist.
func UsernameOrEmailTaken(ctx context.Context, q DBTX, username, email string) (usernameTaken, emailTaken bool, err error) {
	query := `SELECT
		COALESCE(SUM(username = ?), 0),
		COALESCE(SUM(email = ?), 0)
		FROM users WHERE username = ? OR email = ?`

	var byUsername, byEmail int
	if err := q.QueryRowContext(ctx, query, username, email, username, email).Scan(&byUsername, &byEmail); err != nil {
		return false, false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return byUsername > 0, byEmail > 0, nil
}

func GetUserByEmail(ctx context.Context, q DBTX, email string) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", 0)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, q DBTX, id int64) (*models.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// UpdateUserStatus writes the session status column for one user.
func UpdateUserStatus(ctx context.Context, q DBTX, id int64, status string) error {
	res, err := q.ExecContext(ctx, `UPDATE users SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 affected rows when the value is unchanged, so only a
		// missing user is an error.
		var exists int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&exists); err != nil {
			return fmt.Errorf("update user status: %w", err)
		}
		if exists == 0 {
			return apperr.NewNotFoundError("user", id)
		}
	}
	return nil
}

func CountUsers(ctx context.Context, q DBTX) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
