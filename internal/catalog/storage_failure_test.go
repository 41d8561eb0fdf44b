package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStorageFailuresAreInternal(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	defer mockDB.Close()

	s := New(mockDB, testSecret, nil)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT (.+) FROM items").WillReturnError(diskErr)
	_, err = s.ListItems(ctx)
	assertKind(t, err, KindInternal, CodeInternal)
	if !errors.Is(err, diskErr) {
		t.Errorf("expected wrapped cause, got %v", err)
	}

	mock.ExpectQuery("UPDATE items SET stock").WillReturnError(diskErr)
	_, err = s.Purchase(ctx, 1, 1)
	assertKind(t, err, KindInternal, CodeInternal)

	mock.ExpectQuery("UPDATE items SET views").WillReturnError(diskErr)
	_, err = s.ViewItem(ctx, 1)
	assertKind(t, err, KindInternal, CodeInternal)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").WillReturnError(diskErr)
	_, _, err = s.Login(ctx, "alice@example.com", "password123")
	assertKind(t, err, KindInternal, CodeInternal)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
