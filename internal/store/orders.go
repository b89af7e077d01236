package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

const orderColumns = `id, user_id, total_price, status, shipping_address_id, billing_address_id, created_at`

func scanOrders(ctx context.Context, q DBTX, query string, args ...any) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status,
			&o.ShippingAddressID, &o.BillingAddressID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func GetOrder(ctx context.Context, q DBTX, id int64) (*models.Order, error) {
	var o models.Order
	err := q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.ShippingAddressID, &o.BillingAddressID, &o.CreatedAt)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

func CountOrders(ctx context.Context, q DBTX) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// SumOrderTotals returns the sum of total_price over all orders, 0 when there are none.
func SumOrderTotals(ctx context.Context, q DBTX) (float64, error) {
	var total float64
	if err := q.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum order totals: %w", err)
	}
	return total, nil
}

// RecentOrders returns the newest orders by creation time.
func RecentOrders(ctx context.Context, q DBTX, limit int) ([]models.Order, error) {
	return scanOrders(ctx, q,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func OrdersForUser(ctx context.Context, q DBTX, userID int64) ([]models.Order, error) {
	return scanOrders(ctx, q,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func ItemsForOrder(ctx context.Context, q DBTX, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = ? ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func PaymentsForOrder(ctx context.Context, q DBTX, orderID int64) ([]models.Payment, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, order_id, transaction_id, payment_method, amount, currency, status, transaction_date
		FROM payments WHERE order_id = ? ORDER BY transaction_date ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.TransactionID, &p.PaymentMethod,
			&p.Amount, &p.Currency, &p.Status, &p.TransactionDate); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// --- Carts ---

// CartForUser returns the user's cart, or nil when they have none yet.
func CartForUser(ctx context.Context, q DBTX, userID int64) (*models.Cart, error) {
	var c models.Cart
	err := q.QueryRowContext(ctx, `SELECT id, user_id FROM carts WHERE user_id = ?`, userID).Scan(&c.ID, &c.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

func ItemsForCart(ctx context.Context, q DBTX, cartID int64) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = ? ORDER BY id ASC`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
