package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/futureed/archive/internal/model"
)

const itemColumns = `id, owner_id, title, content, stock, views, image_path, created_at`

// CreateItem creates a new item with zero views.
func CreateItem(ctx context.Context, db *sql.DB, ownerID int64, title, content string, stock int, imagePath string) (*model.Item, error) {
	if err := model.ValidateItem(title, content, stock); err != nil {
		return nil, err
	}

	item, err := scanItem(db.QueryRowContext(ctx,
		`INSERT INTO items (owner_id, title, content, stock, views, image_path)
		 VALUES (?, ?, ?, ?, 0, ?)
		 RETURNING `+itemColumns,
		ownerID, title, content, stock, imagePath,
	))
	if isForeignKeyViolation(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// ViewItem returns an item and counts the read as a view. The increment and
// the read are one statement, so concurrent views are never lost.
func ViewItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`UPDATE items SET views = views + 1 WHERE id = ? RETURNING `+itemColumns, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("viewing item: %w", err)
	}
	return item, nil
}

// LookupItem returns an item without touching its view count.
func LookupItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ItemExists reports whether an item with the given ID exists.
func ItemExists(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking item: %w", err)
	}
	return exists, nil
}

// ListItems returns all items in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns items whose title contains key. Matching is
// case-insensitive for ASCII letters; LIKE wildcards in key match literally.
func SearchItems(ctx context.Context, db *sql.DB, key string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE title LIKE ? ESCAPE '\'
		 ORDER BY id`,
		"%"+escapeLike(key)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// DecreaseStock removes amount units from an item's stock and returns the
// new stock. The check and the write are a single conditional UPDATE, so two
// concurrent purchases of the last unit cannot both succeed.
func DecreaseStock(ctx context.Context, db *sql.DB, id int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var stock int
	err := db.QueryRowContext(ctx,
		`UPDATE items SET stock = stock - ?
		 WHERE id = ? AND stock >= ?
		 RETURNING stock`,
		amount, id, amount,
	).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("decreasing stock: %w", err)
	}

	// Nothing was updated: either the item is gone or stock is short.
	exists, err := ItemExists(ctx, db, id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrItemNotFound
	}
	return 0, ErrInsufficientStock
}

// DeleteItem removes an item. Favorites and comments referring to it are
// left in place and filtered out by their readers.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Content,
		&item.Stock, &item.Views, &item.ImagePath, scanTime(&item.CreatedAt))
	if err != nil {
		return nil, err
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
