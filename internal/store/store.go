// Package store holds the SQL for every table. Each relationship has its own
// query function; nothing is loaded implicitly.
package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/go-sql-driver/mysql"
)

// DBTX is re-exported so callers only need this package.
type DBTX = database.DBTX

// uniqueKey is the form field a unique index guards and what to tell the user.
type uniqueKey struct {
	field   string
	message string
}

// uniqueKeys maps unique index names from the schema to the form field they guard.
var uniqueKeys = map[string]uniqueKey{
	"uq_users_username":       {"username", "That username is taken. Please choose a different one."},
	"uq_users_email":          {"email", "That email is already registered."},
	"uq_categories_name":      {"name", "A category with this name already exists."},
	"uq_categories_slug":      {"name", "A category with this name already exists."},
	"uq_products_sku":         {"sku", "A product with this SKU already exists."},
	"uq_carts_user":           {"user_id", ""},
	"uq_payments_transaction": {"transaction_id", ""},
	"uq_contacts_email":       {"email", "You have already sent us a message from this email."},
}

// conflictFromDuplicate converts a MySQL duplicate-key error into a ConflictError.
// Any other error is returned unchanged.
func conflictFromDuplicate(err error) error {
	if !database.IsDuplicateKey(err) {
		return err
	}

	key := uniqueKey{field: "record"}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		for name, k := range uniqueKeys {
			if strings.Contains(myErr.Message, name) {
				key = k
				break
			}
		}
	}
	return apperr.NewConflictError(key.field, key.message)
}

// notFound maps sql.ErrNoRows to a NotFoundError for resource.
func notFound(err error, resource string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NewNotFoundError(resource, id)
	}
	return err
}
