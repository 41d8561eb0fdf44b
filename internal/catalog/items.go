package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/futureed/archive/internal/imaging"
	"github.com/futureed/archive/internal/metrics"
	"github.com/futureed/archive/internal/model"
	"github.com/futureed/archive/internal/store"
)

// NewItem holds the fields of an upload. Image is read once.
type NewItem struct {
	Title   string
	Content string
	Stock   int
	Image   io.Reader
}

// CreateItem stores the image and creates an item owned by ownerID. The
// stored image is removed again if the item cannot be created.
func (s *Service) CreateItem(ctx context.Context, ownerID int64, in NewItem) (*model.Item, error) {
	if err := model.ValidateItem(in.Title, in.Content, in.Stock); err != nil {
		return nil, invalidInput(err)
	}
	if in.Image == nil {
		return nil, invalidInput(errors.New("image required"))
	}

	img, err := imaging.Process(in.Image, s.maxImageBytes)
	if err != nil {
		return nil, translate("failed to process image", err)
	}

	ref, err := s.blobs.Put(ctx, img.Data, img.Ext)
	if err != nil {
		return nil, internalErr("failed to store image", err)
	}

	item, err := store.CreateItem(ctx, s.db, ownerID, in.Title, in.Content, in.Stock, ref)
	if err != nil {
		if derr := s.blobs.Delete(ref); derr != nil {
			slog.Warn("failed to remove orphaned image", "ref", ref, "error", derr)
		}
		return nil, translate("failed to create item", err)
	}

	slog.Info("item created", "item_id", item.ID, "owner_id", ownerID, "image", ref)
	return item, nil
}

// ListItems returns every item.
func (s *Service) ListItems(ctx context.Context) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.db)
	if err != nil {
		return nil, translate("failed to list items", err)
	}
	return nonNil(items), nil
}

// SearchItems returns items whose title contains key, ignoring case.
func (s *Service) SearchItems(ctx context.Context, key string) ([]model.Item, error) {
	items, err := store.SearchItems(ctx, s.db, key)
	if err != nil {
		return nil, translate("failed to search items", err)
	}
	return nonNil(items), nil
}

// ViewItem returns an item and counts the read as a view.
func (s *Service) ViewItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.ViewItem(ctx, s.db, id)
	if err != nil {
		return nil, translate("failed to get item", err)
	}
	metrics.RecordItemView()
	return item, nil
}

// DeleteItem removes an item owned by requesterID together with its image.
func (s *Service) DeleteItem(ctx context.Context, id, requesterID int64) error {
	item, err := store.LookupItem(ctx, s.db, id)
	if err != nil {
		return translate("failed to get item", err)
	}
	if item.OwnerID != requesterID {
		return translate("failed to delete item", store.ErrNotOwner)
	}

	if err := store.DeleteItem(ctx, s.db, id); err != nil {
		return translate("failed to delete item", err)
	}

	if item.ImagePath != "" {
		if err := s.blobs.Delete(item.ImagePath); err != nil {
			slog.Warn("failed to remove item image", "item_id", id, "ref", item.ImagePath, "error", err)
		}
	}

	slog.Info("item deleted", "item_id", id, "by", requesterID)
	return nil
}

// Purchase removes amount units from an item's stock and returns what is
// left.
func (s *Service) Purchase(ctx context.Context, id int64, amount int) (int, error) {
	stock, err := store.DecreaseStock(ctx, s.db, id, amount)
	switch {
	case err == nil:
		metrics.RecordPurchase("ok", amount)
		return stock, nil
	case errors.Is(err, store.ErrInsufficientStock):
		metrics.RecordPurchase("insufficient", amount)
	case errors.Is(err, store.ErrItemNotFound):
		metrics.RecordPurchase("not_found", amount)
	case errors.Is(err, store.ErrInvalidAmount):
		metrics.RecordPurchase("invalid", amount)
	default:
		metrics.RecordPurchase("error", amount)
	}
	return 0, translate("failed to decrease stock", err)
}

func nonNil(items []model.Item) []model.Item {
	if items == nil {
		return []model.Item{}
	}
	return items
}
