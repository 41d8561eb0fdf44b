package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/futureed/archive/internal/model"
)

// newUser creates a user with a unique email.
func newUser(t *testing.T, database *sql.DB, name string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, name, fmt.Sprintf("%s@example.com", name), "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

// newItem creates an item owned by owner with the given stock.
func newItem(t *testing.T, database *sql.DB, owner *model.User, title string, stock int) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, owner.ID, title, "content of "+title, stock, "/uploads/"+title+".jpg")
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}
