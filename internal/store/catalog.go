package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/nativesins/shop-api/internal/models"
)

// CatalogStore owns the 'products' table and its per-size stock counters.
type CatalogStore struct {
	DB *sql.DB
}

// Product list orderings. Anything else falls back to SortByName.
const (
	SortByName      = "name"
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
)

// CreateProductParams carries the fields for a new catalog entry.
type CreateProductParams struct {
	Category     string
	Name         string
	Price        decimal.Decimal
	Description  string
	OneSizeStock int
	SmallStock   int
	MediumStock  int
	LargeStock   int
}

// CreateProduct adds a product to the catalog. A product with the same name
// already existing fails with ErrDuplicateIdentity.
func (s *CatalogStore) CreateProduct(ctx context.Context, params CreateProductParams) (*models.Product, error) {
	if !models.ValidCategory(params.Category) {
		return nil, fmt.Errorf("unknown product category %q", params.Category)
	}

	var existingID int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM products WHERE name = ?", params.Name).Scan(&existingID)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Category:     params.Category,
		Name:         params.Name,
		Slug:         slug.Make(params.Name),
		Price:        params.Price,
		Description:  params.Description,
		OneSizeStock: params.OneSizeStock,
		SmallStock:   params.SmallStock,
		MediumStock:  params.MediumStock,
		LargeStock:   params.LargeStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO products
			(category, name, slug, price, description, one_size_stock, small_stock, medium_stock, large_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.Category, product.Name, product.Slug, product.Price, product.Description,
		product.OneSizeStock, product.SmallStock, product.MediumStock, product.LargeStock,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	product.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct fetches a product by primary key.
func (s *CatalogStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return getProduct(ctx, s.DB, id)
}

// ListProducts returns the whole catalog in the requested order.
func (s *CatalogStore) ListProducts(ctx context.Context, sort string) ([]models.Product, error) {
	var orderBy string
	switch sort {
	case SortByPriceAsc:
		orderBy = "price ASC, name ASC"
	case SortByPriceDesc:
		orderBy = "price DESC, name ASC"
	default:
		orderBy = "name ASC"
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, category, name, slug, price, description,
		       one_size_stock, small_stock, medium_stock, large_stock, created_at, updated_at
		FROM products ORDER BY `+orderBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Category, &p.Name, &p.Slug, &p.Price, &p.Description,
			&p.OneSizeStock, &p.SmallStock, &p.MediumStock, &p.LargeStock,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// DeleteProduct removes a product by id.
func (s *CatalogStore) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckAvailability reports whether the requested quantity does not exceed
// the live counter for the given size.
func (s *CatalogStore) CheckAvailability(ctx context.Context, productID int64, size string, quantity int) (bool, error) {
	product, err := getProduct(ctx, s.DB, productID)
	if err != nil {
		return false, err
	}
	size = product.NormalizeSize(size)
	if product.Sized() && !models.ValidApparelSize(size) {
		return false, ErrInvalidSize
	}
	return quantity <= product.StockFor(size), nil
}

// AdjustStock applies a signed delta to a product's stock counter as an
// explicit load-mutate-save. The write persists immediately; there is no
// compensating rollback on behalf of callers.
func (s *CatalogStore) AdjustStock(ctx context.Context, productID int64, size string, delta int) error {
	product, err := getProduct(ctx, s.DB, productID)
	if err != nil {
		return err
	}
	size = product.NormalizeSize(size)
	if product.Sized() && !models.ValidApparelSize(size) {
		return ErrInvalidSize
	}
	return writeStock(ctx, s.DB, product, size, product.StockFor(size)+delta)
}

func getProduct(ctx context.Context, q querier, id int64) (*models.Product, error) {
	var p models.Product
	err := q.QueryRowContext(ctx, `
		SELECT id, category, name, slug, price, description,
		       one_size_stock, small_stock, medium_stock, large_stock, created_at, updated_at
		FROM products WHERE id = ?`, id).Scan(
		&p.ID, &p.Category, &p.Name, &p.Slug, &p.Price, &p.Description,
		&p.OneSizeStock, &p.SmallStock, &p.MediumStock, &p.LargeStock,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// writeStock persists a counter value into the column matching size. The
// column name comes from a closed switch, never from input.
func writeStock(ctx context.Context, q querier, product *models.Product, size string, stock int) error {
	var column string
	switch size {
	case models.SizeSmall:
		column = "small_stock"
	case models.SizeMedium:
		column = "medium_stock"
	case models.SizeLarge:
		column = "large_stock"
	default:
		column = "one_size_stock"
	}

	_, err := q.ExecContext(ctx,
		"UPDATE products SET "+column+" = ?, updated_at = ? WHERE id = ?",
		stock, time.Now(), product.ID)
	if err == nil {
		product.SetStock(size, stock)
	}
	return err
}
