package services

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

const (
	recentOrdersLimit = 5
	defaultPageSize   = 20
	maxPageSize       = 50
)

// Catalog implements product and category management, public browsing and
// the admin dashboard aggregates.
type Catalog struct {
	DB  *sql.DB
	Log zerolog.Logger
}

func NewCatalog(db *sql.DB, log zerolog.Logger) *Catalog {
	return &Catalog{DB: db, Log: log}
}

// --- Products ---

// ProductInput holds the add-product form.
type ProductInput struct {
	Name          string   `form:"name" json:"name" validate:"required,max=100"`
	Description   string   `form:"description" json:"description" validate:"required"`
	Brand         string   `form:"brand" json:"brand" validate:"max=100"`
	SKU           string   `form:"sku" json:"sku" validate:"required,max=100"`
	Price         float64  `form:"price" json:"price" validate:"gte=0"`
	DiscountPrice *float64 `form:"discount_price" json:"discount_price" validate:"omitempty,gte=0"`
	Stock         int      `form:"stock" json:"stock" validate:"gte=0"`
	CategoryID    int64    `form:"category_id" json:"category_id" validate:"required,gt=0"`
}

// AddProduct validates and inserts a product under an existing category.
func (c *Catalog) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	// 1. --- Validate Input ---
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Brand = strings.TrimSpace(in.Brand)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// 2. --- Prepare Product Data ---
	product := &models.Product{
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		CreatedAt:     time.Now().UTC(),
	}
	if in.Brand != "" {
		brand := in.Brand
		product.Brand = &brand
	}

	// 3. --- Insert ---
	err := database.WithTx(ctx, c.DB, nil, func(tx *sql.Tx) error {
		if _, err := store.GetCategory(ctx, tx, in.CategoryID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.NewValidationError("category_id", "Not a valid choice.")
			}
			return err
		}

		exists, err := store.SKUExists(ctx, tx, in.SKU)
		if err != nil {
			return err
		}
		if exists {
			return apperr.NewConflictError("sku", "A product with this SKU already exists.")
		}

		return store.CreateProduct(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWrite("product")
	c.Log.Info().Int64("product_id", product.ID).Str("sku", product.SKU).Msg("product added")
	return product, nil
}

// ImageInput holds an image URL for an existing product.
type ImageInput struct {
	ImageURL string `form:"image_url" json:"image_url" validate:"required,url,max=200"`
}

func (c *Catalog) AddProductImage(ctx context.Context, productID int64, in ImageInput) (*models.ProductImage, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	img := &models.ProductImage{ProductID: productID, ImageURL: in.ImageURL}
	err := database.WithTx(ctx, c.DB, nil, func(tx *sql.Tx) error {
		if _, err := store.GetProduct(ctx, tx, productID); err != nil {
			return err
		}
		return store.AddProductImage(ctx, tx, img)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWrite("product_image")
	return img, nil
}

// ListProducts returns one page of products, newest first. page starts at 1.
func (c *Catalog) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	// Pages past the end are empty; keep the offset from overflowing.
	if page > math.MaxInt/perPage {
		page = math.MaxInt / perPage
	}
	return store.ListProducts(ctx, c.DB, perPage, (page-1)*perPage)
}

// ProductDetail loads a product with its category, images and reviews.
func (c *Catalog) ProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	detail := &models.ProductDetail{}

	err := database.WithTx(ctx, c.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		p, err := store.GetProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		detail.Product = *p

		cat, err := store.GetCategory(ctx, tx, p.CategoryID)
		if err != nil {
			return err
		}
		detail.Category = *cat

		if detail.Images, err = store.ImagesForProduct(ctx, tx, id); err != nil {
			return err
		}
		if detail.Reviews, err = store.ReviewsForProduct(ctx, tx, id); err != nil {
			return err
		}
		detail.AverageRating, err = store.AverageRating(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Inventory returns the inventory records for a product.
func (c *Catalog) Inventory(ctx context.Context, productID int64) ([]models.InventoryRecord, error) {
	if _, err := store.GetProduct(ctx, c.DB, productID); err != nil {
		return nil, err
	}
	return store.InventoryForProduct(ctx, c.DB, productID)
}

// --- Categories ---

// CategoryInput holds the new-category form.
type CategoryInput struct {
	Name string `form:"name" json:"name" validate:"required,max=100"`
}

func (c *Catalog) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	cat := &models.Category{Name: in.Name, Slug: slug.Make(in.Name)}
	if cat.Slug == "" {
		return nil, apperr.NewValidationError("name", "Name must contain letters or digits.")
	}

	if err := store.CreateCategory(ctx, c.DB, cat); err != nil {
		return nil, err
	}

	metrics.RecordWrite("category")
	c.Log.Info().Int64("category_id", cat.ID).Str("slug", cat.Slug).Msg("category created")
	return cat, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	return store.ListCategories(ctx, c.DB)
}

// CategoryListing is a category with its products ordered by name.
type CategoryListing struct {
	Category *models.Category `json:"category"`
	Products []models.Product `json:"products"`
}

func (c *Catalog) CategoryProducts(ctx context.Context, categoryID int64) (*CategoryListing, error) {
	out := &CategoryListing{}
	err := database.WithTx(ctx, c.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		var err error
		if out.Category, err = store.GetCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		out.Products, err = store.ProductsInCategory(ctx, tx, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Dashboard ---

// DashboardSummary holds the admin aggregates, read from one snapshot.
type DashboardSummary struct {
	TotalProducts int            `json:"totalProducts"`
	TotalOrders   int            `json:"totalOrders"`
	TotalSales    float64        `json:"totalSales"`
	TotalUsers    int            `json:"totalUsers"`
	RecentOrders  []models.Order `json:"recentOrders"`
}

// DashboardSummary reads all five aggregates inside one repeatable-read
// transaction so they describe the same point in time.
func (c *Catalog) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	err := database.WithTx(ctx, c.DB, database.SnapshotTx, func(tx *sql.Tx) error {
		var err error
		if summary.TotalProducts, err = store.CountProducts(ctx, tx); err != nil {
			return err
		}
		if summary.TotalOrders, err = store.CountOrders(ctx, tx); err != nil {
			return err
		}
		if summary.TotalSales, err = store.SumOrderTotals(ctx, tx); err != nil {
			return err
		}
		if summary.TotalUsers, err = store.CountUsers(ctx, tx); err != nil {
			return err
		}
		summary.RecentOrders, err = store.RecentOrders(ctx, tx, recentOrdersLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
