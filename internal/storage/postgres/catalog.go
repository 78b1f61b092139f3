package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/velora-jewels/storefront/internal/catalog"
)

// LoadCatalog reads the full catalog from PostgreSQL. Row order follows the
// seeded position so the catalog's display order matches the seed document.
func LoadCatalog(ctx context.Context, pool *pgxpool.Pool) (*catalog.Catalog, error) {
	categories, err := loadCategories(ctx, pool)
	if err != nil {
		return nil, errors.Wrap(err, "load categories")
	}
	products, err := loadProducts(ctx, pool)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	return catalog.New(products, categories), nil
}

func loadCategories(ctx context.Context, pool *pgxpool.Pool) ([]catalog.Category, error) {
	rows, err := pool.Query(ctx,
		`SELECT id, name, icon FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadProducts(ctx context.Context, pool *pgxpool.Pool) ([]catalog.Product, error) {
	rows, err := pool.Query(ctx,
		`SELECT id, name, category, price, original_price, quantity,
		        description, material, gemstone, weight, image, featured
		 FROM products ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var (
			p             catalog.Product
			originalPrice *decimal.Decimal
			gemstone      *string
		)
		err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &originalPrice, &p.Quantity,
			&p.Description, &p.Material, &gemstone, &p.Weight, &p.Image, &p.Featured,
		)
		if err != nil {
			return nil, err
		}
		p.OriginalPrice = originalPrice
		if gemstone != nil {
			p.Gemstone = *gemstone
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
