package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User status values. Status tracks whether the user currently holds a session.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatus reports whether s is one of the two accepted status values.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// User Model with Pointers for Nullable Fields
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password"`
	Active       bool   `json:"active" db:"active"`
	Status       string `json:"status" db:"status"`
	IsAdmin      bool   `json:"isAdmin" db:"is_admin"`

	// --- Profile Fields (Pointers = Clean JSON) ---
	FullName    *string    `json:"fullName,omitempty" db:"fullname"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Address types accepted by the address_type column.
const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

// Address is the model for the 'addresses' table.
type Address struct {
	ID          int64   `json:"id" db:"id"`
	UserID      int64   `json:"userId" db:"user_id"`
	AddressType string  `json:"addressType" db:"address_type"`
	Street      string  `json:"street" db:"street"`
	City        string  `json:"city" db:"city"`
	State       *string `json:"state,omitempty" db:"state"`
	ZipCode     string  `json:"zipCode" db:"zip_code"`
	Country     string  `json:"country" db:"country"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
