// Package fs implements storage.Provider on a shared directory tree:
// <dataRoot>/<bucket>/<key>. Both processes mount the same root, so a key put
// by the bot is readable by the detection service without any copying.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/snapsightai/snapsight/internal/storage"
)

// Provider stores objects as plain files under a data root.
type Provider struct {
	dataRoot string
}

// New creates a filesystem-backed provider rooted at dataRoot.
func New(dataRoot string) (*Provider, error) {
	abs, err := filepath.Abs(dataRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve data root: %w", err)
	}
	return &Provider{dataRoot: abs}, nil
}

// Put writes the object, creating parent directories as needed.
func (p *Provider) Put(_ context.Context, bucket, key string, r io.Reader) error {
	dest, err := p.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

// Open returns a reader over the stored object.
func (p *Provider) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	dest, err := p.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, bucket, key)
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// objectPath maps bucket/key to a file path, rejecting absolute keys and
// traversal attempts.
func (p *Provider) objectPath(bucket, key string) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty bucket or key", storage.ErrInvalidKey)
	}
	clean := filepath.Clean(key)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", storage.ErrInvalidKey, key)
	}
	joined := filepath.Join(p.dataRoot, bucket, clean)
	if !strings.HasPrefix(joined, p.dataRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", storage.ErrInvalidKey, key)
	}
	return joined, nil
}
