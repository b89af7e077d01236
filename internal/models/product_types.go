package models

import (
	"time"
)

// Product is the model for the 'products' table.
type Product struct {
	ID            int64    `json:"id" db:"id"`
	CategoryID    int64    `json:"categoryId" db:"category_id"`
	Name          string   `json:"name" db:"name"`
	Description   string   `json:"description" db:"description"`
	Brand         *string  `json:"brand,omitempty" db:"brand"`
	SKU           string   `json:"sku" db:"sku"`
	Price         float64  `json:"price" db:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty" db:"discount_price"`
	Stock         int      `json:"stock" db:"stock"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductImage is the model for the 'product_images' table.
type ProductImage struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	ImageURL  string `json:"imageUrl" db:"image_url"`
}

// Review is the model for the 'reviews' table. Rating is 1..5.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	ProductID  int64     `json:"productId" db:"product_id"`
	Rating     int       `json:"rating" db:"rating"`
	ReviewText *string   `json:"reviewText,omitempty" db:"review_text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ProductDetail is a product with its relationships loaded on demand.
// Not a table.
type ProductDetail struct {
	Product
	Category      Category       `json:"category"`
	Images        []ProductImage `json:"images"`
	Reviews       []Review       `json:"reviews"`
	AverageRating *float64       `json:"averageRating,omitempty"`
}
