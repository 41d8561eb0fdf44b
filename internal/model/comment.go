package model

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a message posted on an item. The JSON names match what
// existing clients read (comment, date).
type Comment struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ItemID    int64      `json:"item_id"`
	Text      string     `json:"comment"`
	CreatedAt time.Time  `json:"date"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MaxCommentLength caps the length of a comment body.
const MaxCommentLength = 2000

// NormalizeComment trims a comment body and checks its length.
func NormalizeComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("comment required")
	}
	if len(text) > MaxCommentLength {
		return "", fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	}
	return text, nil
}
