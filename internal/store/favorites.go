package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/futureed/archive/internal/model"
)

// maxToggleAttempts bounds how often ToggleFavorite re-runs the flip when a
// concurrent toggle on the same pair keeps changing the row under it.
const maxToggleAttempts = 8

// ToggleFavorite flips the favorite state of (userID, itemID) and reports
// whether the pair is a favorite afterwards.
//
// The primary key on (user_id, item_id) decides races: a delete that finds
// nothing followed by an insert that conflicts means another toggle added
// the row in between, so the flip starts over and removes it.
func ToggleFavorite(ctx context.Context, db *sql.DB, userID, itemID int64) (bool, error) {
	if userID <= 0 || itemID <= 0 {
		return false, ErrInvalidID
	}

	exists, err := ItemExists(ctx, db, itemID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrItemNotFound
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		result, err := db.ExecContext(ctx,
			`DELETE FROM favorites WHERE user_id = ? AND item_id = ?`,
			userID, itemID,
		)
		if err != nil {
			return false, fmt.Errorf("removing favorite: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			return false, nil
		}

		result, err = db.ExecContext(ctx,
			`INSERT INTO favorites (user_id, item_id) VALUES (?, ?)
			 ON CONFLICT (user_id, item_id) DO NOTHING`,
			userID, itemID,
		)
		if isForeignKeyViolation(err) {
			return false, ErrUserNotFound
		}
		if err != nil {
			return false, fmt.Errorf("adding favorite: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			return true, nil
		}
	}

	return false, ErrToggleContention
}

// IsFavorite reports whether the user has favorited the item.
func IsFavorite(ctx context.Context, db *sql.DB, userID, itemID int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = ? AND item_id = ?)`,
		userID, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}
	return exists, nil
}

// ListFavoriteItems returns the items a user has favorited, most recent
// first. Favorites of deleted items are skipped.
func ListFavoriteItems(ctx context.Context, db *sql.DB, userID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.owner_id, i.title, i.content, i.stock, i.views, i.image_path, i.created_at
		 FROM favorites f
		 JOIN items i ON i.id = f.item_id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountFavorites returns how many users have favorited an item.
func CountFavorites(ctx context.Context, db *sql.DB, itemID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE item_id = ?`, itemID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting favorites: %w", err)
	}
	return n, nil
}
