// Package store persists products and cart line items.
package store

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/telexlabs/go-prodcalc/pkg/model"
)

// ErrProductNotFound is returned when a product id has no row.
var ErrProductNotFound = errors.New("store: product not found")

// Product is a purchasable item with its calculator configuration document.
type Product struct {
	ID     int64
	Name   string
	Price  float64
	Config model.CalculatorConfig
}

// CartItem is one stored cart line.
type CartItem struct {
	ID        int64
	ProductID int64
	Quantity  int
	Values    map[string]any
}

// Store wraps the database handle with the application's queries.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Product loads one product and decodes its calculator configuration.
func (s *Store) Product(ctx context.Context, id int64) (Product, error) {
	var (
		p          Product
		configJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, config_json FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &configJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("store: load product %d: %w", id, err)
	}

	cfg, err := model.ParseJSON([]byte(configJSON))
	if err != nil {
		return Product{}, fmt.Errorf("store: product %d config: %w", id, err)
	}
	p.Config = cfg
	return p, nil
}

// CreateProduct inserts a product with its configuration document and returns
// the assigned id.
func (s *Store) CreateProduct(ctx context.Context, name string, price float64, cfg model.CalculatorConfig) (int64, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("store: encode product config: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, config_json) VALUES (?, ?, ?)`,
		name, price, string(configJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: insert product: %w", err)
	}
	return id, nil
}

// ProductCount reports the number of stored products.
func (s *Store) ProductCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: count products: %w", err)
	}
	return count, nil
}

// AddCartItem records a line item. Lines carrying the same product and the
// same configured values merge by summing quantities; any difference in the
// value mapping produces a distinct line.
func (s *Store) AddCartItem(ctx context.Context, productID int64, quantity int, values map[string]any) error {
	if quantity < 1 {
		quantity = 1
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("store: encode cart values: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_items (product_id, quantity, values_json, unique_key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id, unique_key)
		DO UPDATE SET quantity = quantity + excluded.quantity`,
		productID, quantity, string(valuesJSON), DedupeKey(values),
	)
	if err != nil {
		return fmt.Errorf("store: insert cart item: %w", err)
	}
	return nil
}

// CartCount returns the total quantity across all cart lines.
func (s *Store) CartCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items`,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: count cart items: %w", err)
	}
	return count, nil
}

// CartItems returns all stored cart lines in insertion order.
func (s *Store) CartItems(ctx context.Context) ([]CartItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, values_json FROM cart_items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list cart items: %w", err)
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var (
			item       CartItem
			valuesJSON string
		)
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &valuesJSON); err != nil {
			return nil, fmt.Errorf("store: scan cart item: %w", err)
		}
		if err := json.Unmarshal([]byte(valuesJSON), &item.Values); err != nil {
			return nil, fmt.Errorf("store: decode cart item values: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list cart items: %w", err)
	}
	return items, nil
}

// DedupeKey fingerprints a value mapping. encoding/json writes map keys in
// sorted order, so equal mappings always hash equal.
func DedupeKey(values map[string]any) string {
	encoded, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:])
}
