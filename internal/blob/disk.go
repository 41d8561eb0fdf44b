// Package blob stores uploaded files on local disk and hands out opaque
// references of the form "/uploads/<uuid><ext>".
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path under which stored blobs are served.
const URLPrefix = "/uploads/"

// ErrNotFound is returned for references that do not name a stored blob.
var ErrNotFound = errors.New("blob not found")

// Disk is a directory-backed blob store.
type Disk struct {
	dir string
}

// NewDisk returns a store rooted at dir, creating the directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Put writes data under a fresh random name and returns its reference.
// The file is written to a temp name first and renamed, so readers never see
// a partial blob.
func (d *Disk) Put(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, name)); err != nil {
		return "", fmt.Errorf("storing blob: %w", err)
	}

	return URLPrefix + name, nil
}

// Open returns a reader for the blob named by ref.
func (d *Disk) Open(ref string) (io.ReadCloser, error) {
	p, err := d.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, nil
}

// Delete removes the blob named by ref. Deleting a missing blob is not an
// error.
func (d *Disk) Delete(ref string) error {
	p, err := d.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// resolve maps a reference (or a bare name) to a path inside the store.
// Only names of the form <uuid><ext> are accepted, which rules out path
// traversal.
func (d *Disk) resolve(ref string) (string, error) {
	name := strings.TrimPrefix(ref, URLPrefix)
	if name != path.Base(name) {
		return "", ErrNotFound
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	if _, err := uuid.Parse(stem); err != nil || len(stem) != 36 {
		return "", ErrNotFound
	}
	return filepath.Join(d.dir, name), nil
}
