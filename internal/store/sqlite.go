package store

import (
	"context"
	"database/sql"
	"fmt"

	"findr/internal/model"
)

// SQLite is the persistent storage backend.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite wraps an open database handle.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

const itemColumns = `id, name, clue, code, directions, found, photo_url, created_at, updated_at, found_at`

// CreateItem inserts a new item with found == false.
func (s *SQLite) CreateItem(ctx context.Context, fields ItemFields) (*model.Item, error) {
	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO items (name, clue, code, directions) VALUES (?, ?, ?, ?)`,
		fields.Name, fields.Clue, fields.Code, fields.Directions,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *SQLite) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	return scanItem(row)
}

// FindByCode returns the item with the given redemption code. If a found
// item and a hidden item share a code, the hidden one is returned so a
// re-used code does not shadow a live item.
func (s *SQLite) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE code = ? ORDER BY found ASC, id ASC LIMIT 1`,
		code,
	)
	return scanItem(row)
}

// ListItems returns all items in insertion order.
func (s *SQLite) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.listItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
}

// ListHidden returns the items not yet found, in insertion order.
func (s *SQLite) ListHidden(ctx context.Context) ([]model.Item, error) {
	return s.listItems(ctx, `SELECT `+itemColumns+` FROM items WHERE found = 0 ORDER BY id`)
}

func (s *SQLite) listItems(ctx context.Context, query string) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var photoURL sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Clue, &item.Code, &item.Directions,
			&item.Found, &photoURL, &item.CreatedAt, &item.UpdatedAt, &item.FoundAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.PhotoURL = photoURL.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem replaces the editable fields of an item. The found flag is
// deliberately left untouched.
func (s *SQLite) UpdateItem(ctx context.Context, id int64, fields ItemFields) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET name = ?, clue = ?, code = ?, directions = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		fields.Name, fields.Clue, fields.Code, fields.Directions, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item.
func (s *SQLite) DeleteItem(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFound flips the found flag and records the proof photo URL. The
// conditional UPDATE serializes concurrent redemptions: the database
// applies it to at most one request, the loser sees zero rows changed.
func (s *SQLite) MarkFound(ctx context.Context, id int64, photoURL string) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET found = 1, photo_url = ?, found_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND found = 0`,
		photoURL, id,
	)
	if err != nil {
		return fmt.Errorf("marking item found: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking item found: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Zero rows changed: either the item is gone or someone beat us to it.
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyFound
}

// scanItem scans a single item row, mapping sql.ErrNoRows to ErrNotFound.
func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var photoURL sql.NullString
	err := row.Scan(&item.ID, &item.Name, &item.Clue, &item.Code, &item.Directions,
		&item.Found, &photoURL, &item.CreatedAt, &item.UpdatedAt, &item.FoundAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.PhotoURL = photoURL.String
	return item, nil
}
