package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/futureed/archive/internal/model"
)

const commentColumns = `c.id, c.user_id, c.item_id, c.body, c.created_at, c.updated_at`

// CreateComment posts a comment on an item. The timestamp is assigned here,
// never by the caller, and is never earlier than the newest comment already
// on the item so the thread order is stable even if the clock steps back.
func CreateComment(ctx context.Context, db *sql.DB, userID, itemID int64, text string, now time.Time) (*model.Comment, error) {
	text, err := model.NormalizeComment(text)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, ErrInvalidID
	}

	exists, err := ItemExists(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrItemNotFound
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := now.UTC()
	var latest time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM comments WHERE item_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, itemID,
	).Scan(scanTime(&latest))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading latest comment: %w", err)
	}
	if latest.After(createdAt) {
		createdAt = latest
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO comments (user_id, item_id, body, created_at) VALUES (?, ?, ?, ?)`,
		userID, itemID, text, createdAt,
	)
	if isForeignKeyViolation(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting comment id: %w", err)
	}
	return GetComment(ctx, db, id)
}

// GetComment returns a comment by ID.
func GetComment(ctx context.Context, db *sql.DB, id int64) (*model.Comment, error) {
	c, err := scanComment(db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	return c, nil
}

// ListComments returns the comments on an item, oldest first. Comments left
// behind by a deleted item are not returned.
func ListComments(ctx context.Context, db *sql.DB, itemID int64) ([]model.Comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c
		 JOIN items i ON i.id = c.item_id
		 WHERE c.item_id = ?
		 ORDER BY c.created_at, c.id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// UpdateComment replaces the text of a comment. Only the author may edit.
func UpdateComment(ctx context.Context, db *sql.DB, id, requesterID int64, text string, now time.Time) (*model.Comment, error) {
	text, err := model.NormalizeComment(text)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE comments SET body = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		text, now.UTC(), id, requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}
	if err := ownedRowAffected(ctx, db, result, id); err != nil {
		return nil, err
	}
	return GetComment(ctx, db, id)
}

// DeleteComment removes a comment. Only the author may delete.
func DeleteComment(ctx context.Context, db *sql.DB, id, requesterID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND user_id = ?`,
		id, requesterID,
	)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return ownedRowAffected(ctx, db, result, id)
}

// ownedRowAffected turns an owner-filtered write that touched no rows into
// ErrCommentNotFound or ErrNotOwner.
func ownedRowAffected(ctx context.Context, db *sql.DB, result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := GetComment(ctx, db, id); err != nil {
		return err
	}
	return ErrNotOwner
}

func scanComment(row rowScanner) (*model.Comment, error) {
	c := &model.Comment{}
	var updated time.Time
	updatedAt := scanTime(&updated)
	if err := row.Scan(&c.ID, &c.UserID, &c.ItemID, &c.Text, scanTime(&c.CreatedAt), updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.valid {
		c.UpdatedAt = &updated
	}
	return c, nil
}
