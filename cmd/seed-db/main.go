// Command seed-db imports the catalog seed document into PostgreSQL for
// deployments running with the postgres catalog source. Re-running replaces
// existing rows in place.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/velora-jewels/storefront/db"
	"github.com/velora-jewels/storefront/internal/storage/postgres"
)

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type productJSON struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Quantity      int              `json:"quantity"`
	Description   string           `json:"description"`
	Material      string           `json:"material"`
	Gemstone      *string          `json:"gemstone"`
	Weight        string           `json:"weight"`
	Image         string           `json:"image"`
	Featured      bool             `json:"featured"`
}

type seedJSON struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

func main() {
	var (
		databaseURL string
		seedFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedFile, "seed-file", "", "path to a catalog JSON file (defaults to the embedded seed)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedFile string) error {
	data := db.Seed
	if seedFile != "" {
		fileData, err := os.ReadFile(seedFile)
		if err != nil {
			return errors.Wrapf(err, "read seed file %s", seedFile)
		}
		data = fileData
	}

	var seed seedJSON
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "decode seed document")
	}

	slog.Info("connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Categories must land first: products carry a foreign key to them.
	if err := seedCategories(ctx, pool, seed.Categories); err != nil {
		return errors.Wrap(err, "seed categories")
	}

	// Products split across workers; row positions preserve document order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range seed.Products {
		g.Go(func() error {
			return seedProduct(gctx, pool, p, i)
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "seed products")
	}

	slog.Info("seeded catalog",
		slog.Int("categories", len(seed.Categories)),
		slog.Int("products", len(seed.Products)),
	)
	return nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool, categories []categoryJSON) error {
	batch := &pgx.Batch{}
	for i, c := range categories {
		batch.Queue(
			`INSERT INTO categories (id, name, icon, position)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET name = $2, icon = $3, position = $4`,
			c.ID, c.Name, c.Icon, i,
		)
	}
	return pool.SendBatch(ctx, batch).Close()
}

func seedProduct(ctx context.Context, pool *pgxpool.Pool, p productJSON, position int) error {
	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, name, category, price, original_price, quantity,
		                       description, material, gemstone, weight, image, featured, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2, category = $3, price = $4, original_price = $5,
		     quantity = $6, description = $7, material = $8, gemstone = $9,
		     weight = $10, image = $11, featured = $12, position = $13`,
		p.ID, p.Name, p.Category, p.Price, p.OriginalPrice, p.Quantity,
		p.Description, p.Material, p.Gemstone, p.Weight, p.Image, p.Featured, position,
	)
	if err != nil {
		return errors.Wrapf(err, "insert product %d", p.ID)
	}
	return nil
}
