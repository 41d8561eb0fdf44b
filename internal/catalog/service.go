// Package catalog implements the request-level operations of the archive:
// accounts, items, favorites and comments. Every method returns *Error on
// failure so callers can map failures without knowing the storage layer.
package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/futureed/archive/internal/imaging"
)

// BlobStore holds uploaded image bytes.
type BlobStore interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ref string) error
}

// Service is the catalog facade.
type Service struct {
	db            *sql.DB
	secret        string
	blobs         BlobStore
	now           func() time.Time
	maxImageBytes int64
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxImageBytes caps the raw size of uploaded images.
func WithMaxImageBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

// New returns a Service backed by db, signing tokens with secret and storing
// images in blobs.
func New(db *sql.DB, secret string, blobs BlobStore, opts ...Option) *Service {
	s := &Service{
		db:            db,
		secret:        secret,
		blobs:         blobs,
		now:           time.Now,
		maxImageBytes: imaging.MaxInputBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
