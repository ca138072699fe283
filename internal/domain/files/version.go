package files

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// FileVersion points one version number of a file at its blob in storage.
type FileVersion struct {
	ID         string
	FileID     string
	Version    int
	StorageKey string
	Size       int64
	Checksum   string // hex SHA-256 of the content, empty if not computed
	CreatedAt  time.Time
}

func NewFileVersion(fileID string, version int, storageKey string, size int64, checksum string) (FileVersion, error) {
	if fileID == "" {
		return FileVersion{}, apperr.InvalidInput("file id is required")
	}
	if version <= 0 {
		return FileVersion{}, apperr.InvalidInput("version must be > 0")
	}
	if storageKey == "" {
		return FileVersion{}, apperr.InvalidInput("storage key is required")
	}
	return FileVersion{
		ID:         uuid.NewString(),
		FileID:     fileID,
		Version:    version,
		StorageKey: storageKey,
		Size:       size,
		Checksum:   checksum,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
