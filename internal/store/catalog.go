package store

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

// --- Categories ---

func CreateCategory(ctx context.Context, q DBTX, c *models.Category) error {
	res, err := q.ExecContext(ctx, `INSERT INTO categories (name, slug) VALUES (?, ?)`, c.Name, c.Slug)
	if err != nil {
		return conflictFromDuplicate(fmt.Errorf("insert category: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = id
	return nil
}

func GetCategory(ctx context.Context, q DBTX, id int64) (*models.Category, error) {
	var c models.Category
	err := q.QueryRowContext(ctx, `SELECT id, name, slug FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return &c, nil
}

// ListCategories returns every category ordered by name, as the product form
// presents them.
func ListCategories(ctx context.Context, q DBTX) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// --- Products ---

const productColumns = `id, category_id, name, description, brand, sku, price, discount_price, stock, created_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Brand, &p.SKU,
		&p.Price, &p.DiscountPrice, &p.Stock, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(ctx context.Context, q DBTX, query string, args ...any) ([]models.Product, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// CreateProduct inserts p and sets its ID. A duplicate SKU yields a ConflictError.
func CreateProduct(ctx context.Context, q DBTX, p *models.Product) error {
	query := `INSERT INTO products
		(category_id, name, description, brand, sku, price, discount_price, stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, query,
		p.CategoryID, p.Name, p.Description, p.Brand, p.SKU, p.Price, p.DiscountPrice, p.Stock, p.CreatedAt)
	if err != nil {
		return conflictFromDuplicate(fmt.Errorf("insert product: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return nil
}

func SKUExists(ctx context.Context, q DBTX, sku string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE sku = ?`, sku).Scan(&n); err != nil {
		return false, fmt.Errorf("check sku: %w", err)
	}
	return n > 0, nil
}

func GetProduct(ctx context.Context, q DBTX, id int64) (*models.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return p, nil
}

// ListProducts returns one page of products, newest first.
func ListProducts(ctx context.Context, q DBTX, limit, offset int) ([]models.Product, error) {
	return scanProducts(ctx, q,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
}

func ProductsInCategory(ctx context.Context, q DBTX, categoryID int64) ([]models.Product, error) {
	return scanProducts(ctx, q,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY name ASC`, categoryID)
}

func CountProducts(ctx context.Context, q DBTX) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// --- Product images ---

func AddProductImage(ctx context.Context, q DBTX, img *models.ProductImage) error {
	res, err := q.ExecContext(ctx, `INSERT INTO product_images (product_id, image_url) VALUES (?, ?)`,
		img.ProductID, img.ImageURL)
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	img.ID = id
	return nil
}

func ImagesForProduct(ctx context.Context, q DBTX, productID int64) ([]models.ProductImage, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, product_id, image_url FROM product_images WHERE product_id = ? ORDER BY id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// --- Inventory ---

func InventoryForProduct(ctx context.Context, q DBTX, productID int64) ([]models.InventoryRecord, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, product_id, quantity_in_stock, reorder_level, supplier_name, restock_date
		FROM inventory_records WHERE product_id = ? ORDER BY id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	records := []models.InventoryRecord{}
	for rows.Next() {
		var r models.InventoryRecord
		if err := rows.Scan(&r.ID, &r.ProductID, &r.QuantityInStock, &r.ReorderLevel, &r.SupplierName, &r.RestockDate); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
