package catalog

import (
	"context"

	"github.com/futureed/archive/internal/auth"
	"github.com/futureed/archive/internal/model"
	"github.com/futureed/archive/internal/store"
)

// PostComment adds a comment to an item as the acting identity.
func (s *Service) PostComment(ctx context.Context, claims *auth.Claims, userID, itemID int64, text string) (*model.Comment, error) {
	actor, err := requireIdentity(claims, userID)
	if err != nil {
		return nil, err
	}
	if itemID <= 0 {
		return nil, translate("failed to post comment", store.ErrInvalidID)
	}
	if _, err := model.NormalizeComment(text); err != nil {
		return nil, invalidInput(err)
	}

	c, err := store.CreateComment(ctx, s.db, actor, itemID, text, s.now())
	if err != nil {
		return nil, translate("failed to post comment", err)
	}
	return c, nil
}

// ListComments returns the comments on an item, oldest first. An item
// without comments, or one that no longer exists, yields an empty list.
func (s *Service) ListComments(ctx context.Context, itemID int64) ([]model.Comment, error) {
	comments, err := store.ListComments(ctx, s.db, itemID)
	if err != nil {
		return nil, translate("failed to list comments", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// EditComment replaces the text of a comment written by requesterID.
func (s *Service) EditComment(ctx context.Context, id, requesterID int64, text string) (*model.Comment, error) {
	if _, err := model.NormalizeComment(text); err != nil {
		return nil, invalidInput(err)
	}
	c, err := store.UpdateComment(ctx, s.db, id, requesterID, text, s.now())
	if err != nil {
		return nil, translate("failed to edit comment", err)
	}
	return c, nil
}

// DeleteComment removes a comment written by requesterID.
func (s *Service) DeleteComment(ctx context.Context, id, requesterID int64) error {
	if err := store.DeleteComment(ctx, s.db, id, requesterID); err != nil {
		return translate("failed to delete comment", err)
	}
	return nil
}
