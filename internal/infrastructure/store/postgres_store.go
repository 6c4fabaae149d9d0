package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/example/marketplace/internal/model"
)

// PostgresStore implements Store on top of PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// ConnectPostgres opens a PostgreSQL connection, verifies it and ensures
// the schema exists.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS brands (
			id TEXT PRIMARY KEY,
			brand_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS brands_name_ci ON brands (LOWER(brand_name))`,
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			product_name TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			brand_id TEXT NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			product_images TEXT[] NOT NULL DEFAULT '{}',
			description TEXT NOT NULL DEFAULT '',
			stock_status TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS products_brand_idx ON products (brand_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			items JSONB NOT NULL,
			total_order_cost DOUBLE PRECISION NOT NULL,
			order_status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Users

func (ps *PostgresStore) InsertUser(ctx context.Context, u *model.User) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (ps *PostgresStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return ps.scanUser(ps.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

func (ps *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return ps.scanUser(ps.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, role, created_at, updated_at
		 FROM users WHERE email = $1`, email))
}

func (ps *PostgresStore) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Brands

func (ps *PostgresStore) InsertBrand(ctx context.Context, b *model.Brand) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO brands (id, brand_name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		b.ID, b.BrandName, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (ps *PostgresStore) FindBrandByID(ctx context.Context, id string) (*model.Brand, error) {
	return ps.scanBrand(ps.db.QueryRowContext(ctx,
		`SELECT id, brand_name, created_at, updated_at FROM brands WHERE id = $1`, id))
}

func (ps *PostgresStore) FindBrandByName(ctx context.Context, name string) (*model.Brand, error) {
	return ps.scanBrand(ps.db.QueryRowContext(ctx,
		`SELECT id, brand_name, created_at, updated_at FROM brands WHERE LOWER(brand_name) = LOWER($1)`, name))
}

func (ps *PostgresStore) scanBrand(row *sql.Row) (*model.Brand, error) {
	var b model.Brand
	err := row.Scan(&b.ID, &b.BrandName, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (ps *PostgresStore) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT id, brand_name, created_at, updated_at FROM brands ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.BrandName, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}

func (ps *PostgresStore) UpdateBrand(ctx context.Context, b *model.Brand) error {
	res, err := ps.db.ExecContext(ctx,
		`UPDATE brands SET brand_name = $2, updated_at = $3 WHERE id = $1`,
		b.ID, b.BrandName, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (ps *PostgresStore) DeleteBrand(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// Products

func (ps *PostgresStore) InsertProduct(ctx context.Context, p *model.Product) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO products (id, product_name, owner_id, brand_id, cost, product_images, description, stock_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ProductName, p.OwnerID, p.BrandID, p.Cost, pq.Array(p.ProductImages),
		p.Description, p.StockStatus, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

const productColumns = `id, product_name, owner_id, brand_id, cost, product_images, description, stock_status, created_at, updated_at`

func (ps *PostgresStore) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	row := ps.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	var p model.Product
	var images pq.StringArray
	err := row.Scan(&p.ID, &p.ProductName, &p.OwnerID, &p.BrandID, &p.Cost, &images,
		&p.Description, &p.StockStatus, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ProductImages = images
	return &p, nil
}

func (ps *PostgresStore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (ps *PostgresStore) ListProductsByBrand(ctx context.Context, brandID string, offset, limit int) ([]*model.Product, int, error) {
	var total int
	err := ps.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE brand_id = $1`, brandID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := ps.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE brand_id = $1
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		brandID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func scanProducts(rows *sql.Rows) ([]*model.Product, error) {
	products := []*model.Product{}
	for rows.Next() {
		var p model.Product
		var images pq.StringArray
		if err := rows.Scan(&p.ID, &p.ProductName, &p.OwnerID, &p.BrandID, &p.Cost, &images,
			&p.Description, &p.StockStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.ProductImages = images
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (ps *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// Orders

func (ps *PostgresStore) InsertOrder(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = ps.db.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, items, total_order_cost, order_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.CustomerID, items, o.TotalOrderCost, o.OrderStatus, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (ps *PostgresStore) FindOrderByID(ctx context.Context, id string) (*model.Order, error) {
	row := ps.db.QueryRowContext(ctx,
		`SELECT id, customer_id, items, total_order_cost, order_status, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	return scanOrder(row.Scan)
}

func (ps *PostgresStore) ListOrders(ctx context.Context) ([]*model.Order, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT id, customer_id, items, total_order_cost, order_status, created_at, updated_at
		 FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanOrder(scan func(dest ...any) error) (*model.Order, error) {
	var o model.Order
	var items []byte
	err := scan(&o.ID, &o.CustomerID, &items, &o.TotalOrderCost, &o.OrderStatus, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (ps *PostgresStore) UpdateOrder(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	res, err := ps.db.ExecContext(ctx,
		`UPDATE orders SET items = $2, total_order_cost = $3, order_status = $4, updated_at = $5
		 WHERE id = $1`,
		o.ID, items, o.TotalOrderCost, o.OrderStatus, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
