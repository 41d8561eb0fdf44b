package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// ErrSettingNotFound is returned by GetSetting for unknown keys.
var ErrSettingNotFound = errors.New("setting not found")

// GetSetting returns the value stored under key.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// InitSetting stores candidate under key unless a value is already there,
// and returns whichever value won. Concurrent callers all see the same value.
func InitSetting(ctx context.Context, db *sql.DB, key, candidate string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}
	return GetSetting(ctx, db, key)
}

// GetJWTSecret returns the persisted token signing key, generating a random
// 32-byte key on first use.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return InitSetting(ctx, db, jwtSecretKey, hex.EncodeToString(buf))
}
