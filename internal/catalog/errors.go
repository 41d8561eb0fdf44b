package catalog

import (
	"errors"
	"fmt"

	"github.com/futureed/archive/internal/auth"
	"github.com/futureed/archive/internal/imaging"
	"github.com/futureed/archive/internal/store"
)

// Kind classifies a failure independently of transport.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error codes carried by *Error.
const (
	CodeInvalidInput      = "invalid_input"
	CodeInvalidAmount     = "invalid_amount"
	CodeItemNotFound      = "item_not_found"
	CodeCommentNotFound   = "comment_not_found"
	CodeIdentityNotFound  = "identity_not_found"
	CodeBadCredential     = "bad_credential"
	CodeMissingToken      = "missing_token"
	CodeMalformedToken    = "malformed_token"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"
	CodeNotOwner          = "not_owner"
	CodeInsufficientStock = "insufficient_stock"
	CodeDuplicateEmail    = "duplicate_email"
	CodeInternal          = "internal"
)

// Error is the failure type returned by every Service method.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

func invalidInput(err error) *Error {
	return &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: err.Error()}
}

func internalErr(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// translate maps store, auth and imaging errors onto the failure taxonomy.
// Anything unrecognised becomes KindInternal with op as its message.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, store.ErrItemNotFound):
		return &Error{Kind: KindNotFound, Code: CodeItemNotFound, Message: "item not found", Err: err}
	case errors.Is(err, store.ErrCommentNotFound):
		return &Error{Kind: KindNotFound, Code: CodeCommentNotFound, Message: "comment not found", Err: err}
	case errors.Is(err, store.ErrUserNotFound):
		return &Error{Kind: KindNotFound, Code: CodeIdentityNotFound, Message: "user not found", Err: err}
	case errors.Is(err, store.ErrNotOwner):
		return &Error{Kind: KindForbidden, Code: CodeNotOwner, Message: "not the owner", Err: err}
	case errors.Is(err, store.ErrInsufficientStock):
		return &Error{Kind: KindConflict, Code: CodeInsufficientStock, Message: "insufficient stock", Err: err}
	case errors.Is(err, store.ErrDuplicateEmail):
		return &Error{Kind: KindConflict, Code: CodeDuplicateEmail, Message: "email already registered", Err: err}
	case errors.Is(err, store.ErrInvalidAmount):
		return &Error{Kind: KindInvalidInput, Code: CodeInvalidAmount, Message: "amount must be a positive integer", Err: err}
	case errors.Is(err, store.ErrInvalidID):
		return &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: "ids must be positive integers", Err: err}
	case errors.Is(err, auth.ErrMissingToken):
		return &Error{Kind: KindUnauthorized, Code: CodeMissingToken, Message: "no token provided", Err: err}
	case errors.Is(err, auth.ErrMalformedToken):
		return &Error{Kind: KindUnauthorized, Code: CodeMalformedToken, Message: "malformed token", Err: err}
	case errors.Is(err, auth.ErrExpiredToken):
		return &Error{Kind: KindUnauthorized, Code: CodeTokenExpired, Message: "token expired", Err: err}
	case errors.Is(err, auth.ErrInvalidToken):
		return &Error{Kind: KindUnauthorized, Code: CodeInvalidToken, Message: "invalid token", Err: err}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: imaging.ErrUnsupportedFormat.Error(), Err: err}
	case errors.Is(err, imaging.ErrTooLarge):
		return &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: "image too large", Err: err}
	}
	return internalErr(op, err)
}
