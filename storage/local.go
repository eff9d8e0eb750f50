// Package storage holds product image bytes outside the database. The rest
// of the app only ever sees the reference string.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/andreysx/storefront/apperr"
)

// maxAssetSize caps uploads at 5 MiB.
const maxAssetSize = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// LocalDisk stores assets as files under a root directory, keyed by a random
// uuid reference.
type LocalDisk struct {
	root string
}

func NewLocalDisk(root string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", root, err)
	}
	return &LocalDisk{root: root}, nil
}

// Put writes the bytes and returns a stable reference. Oversized bodies and
// unknown content types are rejected before anything touches disk.
func (d *LocalDisk) Put(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validation("empty file")
	}
	if len(data) > maxAssetSize {
		return "", apperr.Validation("file exceeds 5 MiB")
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", apperr.Validation("unsupported content type " + contentType)
	}

	ref := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(d.root, ref), data, 0o644); err != nil {
		return "", apperr.Internal(fmt.Errorf("storage: write %s: %w", ref, err))
	}
	return ref, nil
}

// Delete removes a stored asset. Deleting a reference that is already gone
// is not an error.
func (d *LocalDisk) Delete(ref string) error {
	// Refuse path traversal through a crafted reference.
	if filepath.Base(ref) != ref {
		return apperr.Validation("invalid reference")
	}
	err := os.Remove(filepath.Join(d.root, ref))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Internal(fmt.Errorf("storage: delete %s: %w", ref, err))
	}
	return nil
}
