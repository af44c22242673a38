package db

import (
	"database/sql"
	"fmt"
	"shelf/internal/model"
	"strings"
	"time"
)

const productColumns = `id, name, category, price_cents, state, created_at`

// ListProducts retrieves every product, newest first.
func ListProducts(db *sql.DB) ([]model.Product, error) {
	rows, err := db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// CountProducts counts products in category. An empty category counts all.
func CountProducts(db *sql.DB, category string) (int, error) {
	category = strings.TrimSpace(category)
	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM products WHERE (? = '' OR category = ? COLLATE NOCASE)`,
		category, category,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// ListProductsPage retrieves one page of products in category, newest
// first. page is 1-based; size must be positive.
func ListProductsPage(db *sql.DB, category string, page, size int) ([]model.Product, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid page size %d", size)
	}
	if page < 1 {
		page = 1
	}
	category = strings.TrimSpace(category)
	rows, err := db.Query(
		`SELECT `+productColumns+` FROM products
		WHERE (? = '' OR category = ? COLLATE NOCASE)
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		category, category, size, (page-1)*size,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list product page: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListCategories returns the distinct categories in alphabetical order.
func ListCategories(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT UPPER(TRIM(category)) AS c FROM products WHERE TRIM(category) <> '' ORDER BY c`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return out, nil
}

// InsertProduct creates a new product.
func InsertProduct(db *sql.DB, p model.NewProduct) (int64, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return 0, fmt.Errorf("product name is required")
	}
	if p.PriceCents <= 0 {
		return 0, fmt.Errorf("price must be greater than zero")
	}
	state := strings.ToUpper(strings.TrimSpace(p.State))
	if state == "" {
		state = model.StateActive
	}

	result, err := db.Exec(
		`INSERT INTO products (name, category, price_cents, state) VALUES (?, ?, ?, ?)`,
		name, strings.ToUpper(strings.TrimSpace(p.Category)), p.PriceCents, state,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get product id: %w", err)
	}
	return id, nil
}

// InsertProducts creates products in a single transaction.
func InsertProducts(db *sql.DB, products []model.NewProduct) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO products (name, category, price_cents, state) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" || p.PriceCents <= 0 {
			return fmt.Errorf("invalid product %q", p.Name)
		}
		state := strings.ToUpper(strings.TrimSpace(p.State))
		if state == "" {
			state = model.StateActive
		}
		if _, err := stmt.Exec(strings.TrimSpace(p.Name), strings.ToUpper(strings.TrimSpace(p.Category)), p.PriceCents, state); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	var results []model.Product
	for rows.Next() {
		var p model.Product
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.State, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			p.CreatedAt = t
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return results, nil
}
