package store

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors returned (possibly wrapped) by store functions.
var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOwner          = errors.New("not the owner")
	ErrInvalidID         = errors.New("invalid id")
	ErrToggleContention  = errors.New("favorite toggle did not settle")
)

// constraintCode returns the extended SQLite result code of a constraint
// violation, or 0 if err is not one.
func constraintCode(err error) int {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0
	}
	if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0
	}
	return se.Code()
}

func isUniqueViolation(err error) bool {
	code := constraintCode(err)
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
