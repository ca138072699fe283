package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// GCSProvider stores blobs in a Google Cloud Storage bucket. Keys are the
// object paths within the bucket.
type GCSProvider struct {
	client *gcs.Client
	bucket string
}

func NewGCSProvider(client *gcs.Client, bucket string) *GCSProvider {
	return &GCSProvider{client: client, bucket: bucket}
}

func (p *GCSProvider) Store(ctx context.Context, data io.Reader, filename string) (string, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	key := filepath.ToSlash(filepath.Join("files", id+ext))

	wc := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, data); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return key, nil
}

func (p *GCSProvider) Retrieve(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	r, err := p.client.Bucket(p.bucket).Object(storageKey).NewReader(ctx)
	if err != nil {
		if err == gcs.ErrObjectNotExist {
			return nil, apperr.NotFound("Stored object not found")
		}
		return nil, err
	}
	return r, nil
}

func (p *GCSProvider) Delete(ctx context.Context, storageKey string) error {
	err := p.client.Bucket(p.bucket).Object(storageKey).Delete(ctx)
	if err != nil && err != gcs.ErrObjectNotExist {
		return err
	}
	return nil
}
