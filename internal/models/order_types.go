package models

import (
	"time"
)

const (
	OrderStatusPending   = "Pending"
	PaymentStatusPending = "Pending"
)

// Order is the model for the 'orders' table.
// TotalPrice is expected to equal the sum of item subtotals; nothing in the
// schema enforces it.
type Order struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	TotalPrice        float64   `json:"totalPrice" db:"total_price"`
	Status            string    `json:"status" db:"status"`
	ShippingAddressID *int64    `json:"shippingAddressId,omitempty" db:"shipping_address_id"`
	BillingAddressID  *int64    `json:"billingAddressId,omitempty" db:"billing_address_id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"` // Price at the time of purchase
}

// Subtotal is the line total for the item.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Payment is the model for the 'payments' table. It is passive storage;
// no gateway writes to it.
type Payment struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"orderId" db:"order_id"`
	TransactionID   string    `json:"transactionId" db:"transaction_id"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	Amount          float64   `json:"amount" db:"amount"`
	Currency        string    `json:"currency" db:"currency"`
	Status          string    `json:"status" db:"status"`
	TransactionDate time.Time `json:"transactionDate" db:"transaction_date"`
}
