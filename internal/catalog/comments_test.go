package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/futureed/archive/internal/auth"
)

func TestCommentThread(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newService(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	item := createItem(t, s, alice, "Cosmos", 1)

	for _, text := range []string{"a", "b", "c"} {
		if _, err := s.PostComment(ctx, &auth.Claims{UserID: bob.ID}, 0, item.ID, text); err != nil {
			t.Fatalf("PostComment(%s): %v", text, err)
		}
		// Step the clock back to check the thread order holds anyway.
		clock = clock.Add(-time.Minute)
	}

	comments, err := s.ListComments(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	var got []string
	for _, c := range comments {
		got = append(got, c.Text)
		if c.UserID != bob.ID {
			t.Errorf("expected author %d, got %d", bob.ID, c.UserID)
		}
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("expected a,b,c, got %v", got)
	}

	first := comments[0]
	_, err = s.EditComment(ctx, first.ID, alice.ID, "hijacked")
	assertKind(t, err, KindForbidden, CodeNotOwner)

	err = s.DeleteComment(ctx, first.ID, alice.ID)
	assertKind(t, err, KindForbidden, CodeNotOwner)

	edited, err := s.EditComment(ctx, first.ID, bob.ID, "  a, revised ")
	if err != nil {
		t.Fatalf("EditComment: %v", err)
	}
	if edited.Text != "a, revised" || edited.UpdatedAt == nil {
		t.Errorf("unexpected edited comment: %+v", edited)
	}

	if err := s.DeleteComment(ctx, first.ID, bob.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	err = s.DeleteComment(ctx, first.ID, bob.ID)
	assertKind(t, err, KindNotFound, CodeCommentNotFound)
}

func TestPostCommentErrors(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	item := createItem(t, s, alice, "Cosmos", 1)
	claims := &auth.Claims{UserID: alice.ID}

	_, err := s.PostComment(ctx, claims, 0, item.ID, "   ")
	assertKind(t, err, KindInvalidInput, CodeInvalidInput)

	_, err = s.PostComment(ctx, claims, 0, 9999, "hello")
	assertKind(t, err, KindNotFound, CodeItemNotFound)

	_, err = s.PostComment(ctx, claims, bob.ID, item.ID, "hello")
	assertKind(t, err, KindForbidden, CodeNotOwner)

	_, err = s.PostComment(ctx, nil, 9999, item.ID, "hello")
	assertKind(t, err, KindNotFound, CodeIdentityNotFound)

	_, err = s.EditComment(ctx, 9999, alice.ID, "hello")
	assertKind(t, err, KindNotFound, CodeCommentNotFound)
}
