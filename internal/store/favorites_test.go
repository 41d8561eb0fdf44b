package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/futureed/archive/internal/db"
)

func TestToggleFavoriteSelfInverse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := newUser(t, database, "alice")
	item := newItem(t, database, user, "Cosmos", 1)

	active, err := ToggleFavorite(ctx, database, user.ID, item.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !active {
		t.Error("expected first toggle to add the favorite")
	}

	active, err = ToggleFavorite(ctx, database, user.ID, item.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if active {
		t.Error("expected second toggle to remove the favorite")
	}

	n, _ := CountFavorites(ctx, database, item.ID)
	if n != 0 {
		t.Errorf("expected 0 favorite rows, got %d", n)
	}
}

func TestToggleFavoriteErrors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := newUser(t, database, "alice")
	item := newItem(t, database, user, "Cosmos", 1)

	if _, err := ToggleFavorite(ctx, database, 0, item.ID); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for user 0, got %v", err)
	}
	if _, err := ToggleFavorite(ctx, database, user.ID, 0); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID for item 0, got %v", err)
	}
	if _, err := ToggleFavorite(ctx, database, user.ID, 999); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := ToggleFavorite(ctx, database, 999, item.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestToggleFavoriteConcurrent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := newUser(t, database, "alice")
	item := newItem(t, database, user, "Cosmos", 1)

	const togglers = 10
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < togglers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := ToggleFavorite(ctx, database, user.ID, item.ID); err != nil {
				t.Errorf("ToggleFavorite: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	n, err := CountFavorites(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("CountFavorites: %v", err)
	}
	if n > 1 {
		t.Fatalf("expected at most one favorite row, got %d", n)
	}
	// An even number of flips lands back on "not favorited".
	if n != 0 {
		t.Errorf("expected 0 favorites after %d toggles, got %d", togglers, n)
	}
}

func TestListFavoriteItemsSkipsDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	user := newUser(t, database, "alice")
	keep := newItem(t, database, user, "Keep", 1)
	gone := newItem(t, database, user, "Gone", 1)

	ToggleFavorite(ctx, database, user.ID, keep.ID)
	ToggleFavorite(ctx, database, user.ID, gone.ID)
	DeleteItem(ctx, database, gone.ID)

	items, err := ListFavoriteItems(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("ListFavoriteItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Errorf("expected only the surviving item, got %+v", items)
	}

	fav, _ := IsFavorite(ctx, database, user.ID, keep.ID)
	if !fav {
		t.Error("expected IsFavorite to report true")
	}
}
