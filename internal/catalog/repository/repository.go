package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/mariattjoseph2016-code/Masala-storys/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error)
	Close() error
	RunMigrations(string) error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewRepositoryWithDB wraps an already opened connection. The sqlite stock
// ledger shares the same *sql.DB so its transactions see the same file.
func NewRepositoryWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *sql.DB {
	return r.db
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, slug, description, stock_quantity, mrp, sale_price, created_at
		FROM products
		WHERE is_active = 1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return r.scanProducts(ctx, rows)
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, slug, description, stock_quantity, mrp, sale_price, created_at
		FROM products
		WHERE id = ? AND is_active = 1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	if err := r.loadImages(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProducts resolves a batch of ids. Ids that do not resolve are simply
// absent from the result; the caller decides whether that is an error.
func (r *Repository) GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var mrp string
	var salePrice sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.StockQuantity,
		&mrp,
		&salePrice,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.MRP, err = decimal.NewFromString(mrp)
	if err != nil {
		return nil, fmt.Errorf("bad mrp for product %d: %w", p.ID, err)
	}
	if salePrice.Valid {
		sp, err := decimal.NewFromString(salePrice.String)
		if err != nil {
			return nil, fmt.Errorf("bad sale price for product %d: %w", p.ID, err)
		}
		p.SalePrice = &sp
	}
	return p, nil
}

func (r *Repository) scanProducts(ctx context.Context, rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, p := range products {
		if err := r.loadImages(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *Repository) loadImages(ctx context.Context, p *domain.Product) error {
	query := `
		SELECT source, alt_text, is_primary
		FROM product_images
		WHERE product_id = ?
		ORDER BY is_primary DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("failed to query images for product %d: %w", p.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ImageRef
		if err := rows.Scan(&img.Source, &img.AltText, &img.IsPrimary); err != nil {
			return fmt.Errorf("failed to scan image: %w", err)
		}
		p.Images = append(p.Images, img)
	}
	return rows.Err()
}
