package database

import (
	"context"
	"fmt"
)

// schema creates every table in dependency order. Each statement is
// idempotent so Apply can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(80) NOT NULL,
		email VARCHAR(120) NOT NULL,
		password VARCHAR(128) NOT NULL,
		fullname VARCHAR(150) NULL,
		phone VARCHAR(20) NULL,
		date_of_birth DATE NULL,
		gender VARCHAR(10) NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(16) NOT NULL DEFAULT 'inactive',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email),
		CONSTRAINT chk_users_status CHECK (status IN ('active', 'inactive'))
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		address_type VARCHAR(50) NOT NULL,
		street VARCHAR(200) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(100) NULL,
		zip_code VARCHAR(20) NOT NULL,
		country VARCHAR(100) NOT NULL,
		CONSTRAINT fk_addresses_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT chk_addresses_type CHECK (address_type IN ('shipping', 'billing'))
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(120) NOT NULL,
		UNIQUE KEY uq_categories_name (name),
		UNIQUE KEY uq_categories_slug (slug)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		brand VARCHAR(100) NULL,
		sku VARCHAR(100) NOT NULL,
		price DOUBLE NOT NULL,
		discount_price DOUBLE NULL,
		stock INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_products_sku (sku),
		KEY idx_products_created_at (created_at),
		CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id),
		CONSTRAINT chk_products_price CHECK (price >= 0),
		CONSTRAINT chk_products_discount CHECK (discount_price IS NULL OR discount_price >= 0),
		CONSTRAINT chk_products_stock CHECK (stock >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS product_images (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		image_url VARCHAR(200) NOT NULL,
		CONSTRAINT fk_product_images_product FOREIGN KEY (product_id) REFERENCES products(id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		total_price DOUBLE NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Pending',
		shipping_address_id BIGINT NULL,
		billing_address_id BIGINT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_orders_created_at (created_at),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_orders_shipping FOREIGN KEY (shipping_address_id) REFERENCES addresses(id),
		CONSTRAINT fk_orders_billing FOREIGN KEY (billing_address_id) REFERENCES addresses(id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price DOUBLE NOT NULL,
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id),
		CONSTRAINT fk_order_items_product FOREIGN KEY (product_id) REFERENCES products(id),
		CONSTRAINT chk_order_items_quantity CHECK (quantity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		rating INT NOT NULL,
		review_text TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_reviews_product FOREIGN KEY (product_id) REFERENCES products(id),
		CONSTRAINT chk_reviews_rating CHECK (rating BETWEEN 1 AND 5)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		UNIQUE KEY uq_carts_user (user_id),
		CONSTRAINT fk_carts_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		cart_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		CONSTRAINT fk_cart_items_cart FOREIGN KEY (cart_id) REFERENCES carts(id),
		CONSTRAINT fk_cart_items_product FOREIGN KEY (product_id) REFERENCES products(id),
		CONSTRAINT chk_cart_items_quantity CHECK (quantity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		transaction_id VARCHAR(100) NOT NULL,
		payment_method VARCHAR(50) NOT NULL,
		amount DOUBLE NOT NULL,
		currency VARCHAR(10) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Pending',
		transaction_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_payments_transaction (transaction_id),
		CONSTRAINT fk_payments_order FOREIGN KEY (order_id) REFERENCES orders(id)
	)`,
	`CREATE TABLE IF NOT EXISTS support_tickets (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		subject VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Open',
		priority VARCHAR(50) NOT NULL DEFAULT 'Medium',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		resolved_at DATETIME NULL,
		CONSTRAINT fk_support_tickets_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT chk_support_tickets_priority CHECK (priority IN ('Low', 'Medium', 'High'))
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		support_ticket_id BIGINT NOT NULL,
		user_id BIGINT NULL,
		message TEXT NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_chat_messages_ticket FOREIGN KEY (support_ticket_id) REFERENCES support_tickets(id),
		CONSTRAINT fk_chat_messages_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_records (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		quantity_in_stock INT NOT NULL,
		reorder_level INT NOT NULL,
		supplier_name VARCHAR(100) NULL,
		restock_date DATETIME NULL,
		CONSTRAINT fk_inventory_records_product FOREIGN KEY (product_id) REFERENCES products(id)
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(80) NOT NULL,
		last_name VARCHAR(80) NOT NULL,
		email VARCHAR(120) NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_contacts_email (email)
	)`,
}

// TableCount is the number of statements Apply executes.
func TableCount() int { return len(schema) }

// Apply creates any missing tables.
func Apply(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
