package model

import (
	"fmt"
	"strings"
	"time"
)

// Item is a catalog entry with purchasable stock.
type Item struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Stock     int       `json:"stock"`
	Views     int       `json:"views"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Field limits.
const (
	MaxTitleLength   = 200
	MaxContentLength = 20000
)

// ValidateItem checks the user-supplied fields of a new item.
func ValidateItem(title, content string, stock int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title required")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content required")
	}
	if len(content) > MaxContentLength {
		return fmt.Errorf("content must be at most %d characters", MaxContentLength)
	}
	if stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}
