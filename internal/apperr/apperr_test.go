package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessageIsSortedByField(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"price": "must be greater than or equal to 0",
		"name":  "is required",
	}}

	assert.Equal(t, "name: is required; price: must be greater than or equal to 0", err.Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsConflict(err))
}

func TestConflictErrorUnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create product: %w", NewConflictError("sku", ""))

	assert.True(t, IsConflict(err))
	assert.Equal(t, "create product: sku already exists", err.Error())
}

func TestAuthErrorIsGeneric(t *testing.T) {
	err := &AuthError{}

	assert.Equal(t, CredentialsMessage, err.Error())
	assert.True(t, IsAuth(err))
}

func TestAuthorizationAndNotFound(t *testing.T) {
	assert.True(t, IsForbidden(&AuthorizationError{Capability: "admin"}))
	assert.Equal(t, "product 7 not found", NewNotFoundError("product", 7).Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", 0).Error())
	assert.True(t, IsNotFound(NewNotFoundError("user", 0)))
}
