package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/futureed/archive/internal/auth"
	"github.com/futureed/archive/internal/metrics"
	"github.com/futureed/archive/internal/model"
	"github.com/futureed/archive/internal/store"
)

// Register creates a new identity with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput(errors.New("name required"))
	}
	email, err := model.NormalizeEmail(email)
	if err != nil {
		return nil, invalidInput(err)
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, invalidInput(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, internalErr("failed to hash password", err)
	}

	user, err := store.CreateUser(ctx, s.db, name, email, hash)
	if err != nil {
		return nil, translate("failed to create user", err)
	}

	metrics.RecordRegistration()
	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email, err := model.NormalizeEmail(email)
	if err != nil {
		return "", nil, invalidInput(err)
	}
	if password == "" {
		return "", nil, invalidInput(errors.New("password required"))
	}

	user, err := store.GetUserByEmail(ctx, s.db, email)
	if errors.Is(err, store.ErrUserNotFound) {
		metrics.RecordLogin("unknown")
		return "", nil, &Error{Kind: KindNotFound, Code: CodeIdentityNotFound, Message: "user not found", Err: err}
	}
	if err != nil {
		return "", nil, translate("failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.RecordLogin("bad")
		slog.Warn("login failed", "user_id", user.ID)
		return "", nil, &Error{Kind: KindUnauthorized, Code: CodeBadCredential, Message: "invalid credentials"}
	}

	token, err := auth.GenerateToken(s.secret, user.ID, user.Name, user.Email)
	if err != nil {
		return "", nil, internalErr("failed to generate token", err)
	}

	metrics.RecordLogin("ok")
	slog.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

// Verify checks a bearer token and returns its claims. It does not touch
// the database.
func (s *Service) Verify(token string) (*auth.Claims, error) {
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return nil, translate("failed to verify token", err)
	}
	return claims, nil
}

// VerifyHeader checks an Authorization header of the form "Bearer <token>".
func (s *Service) VerifyHeader(header string) (*auth.Claims, error) {
	token, err := auth.BearerToken(header)
	if err != nil {
		return nil, translate("failed to read token", err)
	}
	return s.Verify(token)
}

// ListUsers returns all identities. Password hashes never leave the model.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := store.ListUsers(ctx, s.db)
	if err != nil {
		return nil, translate("failed to list users", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// requireIdentity resolves the acting identity for operations that accept
// the identity in the request body. A token identity always wins; a body id
// that disagrees with it is refused.
func requireIdentity(claims *auth.Claims, bodyID int64) (int64, error) {
	if claims == nil {
		if bodyID <= 0 {
			return 0, &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: "user_id must be a positive integer"}
		}
		return bodyID, nil
	}
	if bodyID != 0 && bodyID != claims.UserID {
		return 0, &Error{
			Kind:    KindForbidden,
			Code:    CodeNotOwner,
			Message: fmt.Sprintf("cannot act as user %d", bodyID),
		}
	}
	return claims.UserID, nil
}
