package catalog

import (
	"context"

	"github.com/futureed/archive/internal/auth"
	"github.com/futureed/archive/internal/metrics"
	"github.com/futureed/archive/internal/model"
	"github.com/futureed/archive/internal/store"
)

// ToggleFavorite flips the favorite state of an item for the acting
// identity and reports whether it is a favorite afterwards. claims may be
// nil for clients that only send userID.
func (s *Service) ToggleFavorite(ctx context.Context, claims *auth.Claims, userID, itemID int64) (bool, error) {
	actor, err := requireIdentity(claims, userID)
	if err != nil {
		return false, err
	}

	active, err := store.ToggleFavorite(ctx, s.db, actor, itemID)
	if err != nil {
		return false, translate("failed to toggle favorite", err)
	}
	metrics.RecordFavoriteToggle(active)
	return active, nil
}

// ListFavorites returns the items userID has favorited, newest first.
func (s *Service) ListFavorites(ctx context.Context, userID int64) ([]model.Item, error) {
	items, err := store.ListFavoriteItems(ctx, s.db, userID)
	if err != nil {
		return nil, translate("failed to list favorites", err)
	}
	return nonNil(items), nil
}
