package market

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore persists the catalog in the products table. See db/schema.sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Put(ctx context.Context, it Item) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, description, image, location, price, owner, sold)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				image = EXCLUDED.image,
				location = EXCLUDED.location,
				price = EXCLUDED.price,
				owner = EXCLUDED.owner,
				sold = EXCLUDED.sold
		`, it.ID, it.Name, it.Description, it.Image, it.Location, it.Price, it.Owner, it.Sold)
		return err
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Item, bool, error) {
	var it Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, description, image, location, price, owner, sold
			FROM products
			WHERE id = $1
		`, id).Scan(&it.ID, &it.Name, &it.Description, &it.Image, &it.Location, &it.Price, &it.Owner, &it.Sold)
	})

	if err == sql.ErrNoRows {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}
	return it, true, nil
}

func (s *PostgresStore) Values(ctx context.Context) ([]Item, error) {
	var out []Item

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, description, image, location, price, owner, sold
			FROM products
			ORDER BY id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Item, 0, 16)
		for rows.Next() {
			var it Item
			if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Image, &it.Location, &it.Price, &it.Owner, &it.Sold); err != nil {
				return err
			}
			out = append(out, it)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
