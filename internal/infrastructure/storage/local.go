package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// LocalProvider writes blobs to a directory on disk. Storage keys are
// generated server side, but Retrieve and Delete still refuse any key that
// would escape the base directory.
type LocalProvider struct {
	baseDir string
}

func NewLocalProvider(baseDir string) (*LocalProvider, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalProvider{baseDir: abs}, nil
}

func (p *LocalProvider) Store(ctx context.Context, data io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path, err := p.resolve(key)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return key, nil
}

func (p *LocalProvider) Retrieve(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := p.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound("Stored object not found")
		}
		return nil, err
	}
	return f, nil
}

func (p *LocalProvider) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := p.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve joins the key under baseDir and rejects anything that resolves
// outside of it.
func (p *LocalProvider) resolve(storageKey string) (string, error) {
	if storageKey == "" {
		return "", apperr.InvalidInput("storage key is required")
	}
	path := filepath.Join(p.baseDir, filepath.Clean("/"+storageKey))
	if !strings.HasPrefix(path, p.baseDir+string(filepath.Separator)) {
		return "", apperr.InvalidInput("invalid storage key")
	}
	return path, nil
}
