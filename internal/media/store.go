// Package media resolves opaque media handles to file bytes.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatshop/internal/domain"
)

// Store resolves a media handle to readable bytes. A missing file is the
// recoverable domain.ErrMediaAbsent, not an I/O failure.
type Store interface {
	Resolve(ctx context.Context, h domain.MediaHandle) ([]byte, error)
}

// FSStore serves handles as paths relative to a single media root.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	abs := root
	if !filepath.IsAbs(abs) {
		var err error
		if abs, err = filepath.Abs(root); err != nil {
			return nil, err
		}
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) Resolve(ctx context.Context, h domain.MediaHandle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Handles come from the catalog, but guard traversal anyway.
	clean := filepath.Clean(h.Path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) || strings.Contains(clean, "\x00") {
		return nil, fmt.Errorf("handle %q: %w", h.Path, domain.ErrMediaAbsent)
	}

	b, err := os.ReadFile(filepath.Join(s.root, clean))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("handle %q: %w", h.Path, domain.ErrMediaAbsent)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
