package devledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeonechain/governance/pkg/governance"
)

// ContentStore is a file-backed content-addressed store for offloaded
// proposal bodies. Documents are stored under their SHA-256 hex digest.
type ContentStore struct {
	dir string
}

// NewContentStore creates a content store rooted at dir.
func NewContentStore(dir string) (*ContentStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("content directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &ContentStore{dir: dir}, nil
}

// Store persists the document and returns its content hash.
func (c *ContentStore) Store(_ context.Context, document []byte) (string, error) {
	sum := sha256.Sum256(document)
	hash := hex.EncodeToString(sum[:])

	path := filepath.Join(c.dir, hash)
	if _, err := os.Stat(path); err == nil {
		// Content-addressed: identical documents share one file.
		return hash, nil
	}

	if err := os.WriteFile(path, document, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return hash, nil
}

// Load retrieves a document by its content hash.
func (c *ContentStore) Load(hash string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, hash))
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", hash, err)
	}
	return data, nil
}

var _ governance.ContentStore = (*ContentStore)(nil)
