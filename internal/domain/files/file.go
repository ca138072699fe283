package files

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// FileStatus tracks the upload lifecycle of a stored file.
type FileStatus string

const (
	StatusUploading FileStatus = "UPLOADING"
	StatusActive    FileStatus = "ACTIVE"
	StatusDeleted   FileStatus = "DELETED"
)

// StoredFile is the metadata record for an uploaded file. Blob bytes live
// behind StorageProvider; versions are separate FileVersion records.
type StoredFile struct {
	ID             string
	OwnerID        string
	Name           string
	MimeType       string
	Size           int64
	FolderID       string // empty = root
	Status         FileStatus
	CurrentVersion int
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewStoredFile creates a file record in UPLOADING state.
func NewStoredFile(ownerID, name, mimeType string, size int64, folderID string) (StoredFile, error) {
	if ownerID == "" {
		return StoredFile{}, apperr.InvalidInput("owner id is required")
	}
	if name == "" {
		return StoredFile{}, apperr.InvalidInput("file name is required")
	}
	if size < 0 {
		return StoredFile{}, apperr.InvalidInput("file size must be >= 0")
	}
	now := time.Now().UTC()
	return StoredFile{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           name,
		MimeType:       mimeType,
		Size:           size,
		FolderID:       folderID,
		Status:         StatusUploading,
		CurrentVersion: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (f StoredFile) touched() StoredFile {
	f.UpdatedAt = time.Now().UTC()
	return f
}

// MarkActive completes the upload.
func (f StoredFile) MarkActive() StoredFile {
	f.Status = StatusActive
	return f.touched()
}

func (f StoredFile) Rename(newName string) (StoredFile, error) {
	if newName == "" {
		return StoredFile{}, apperr.InvalidInput("new name is required")
	}
	f.Name = newName
	return f.touched(), nil
}

func (f StoredFile) Move(newFolderID string) StoredFile {
	f.FolderID = newFolderID
	return f.touched()
}

// MarkDeleted soft-deletes; the blob is garbage-collected separately.
func (f StoredFile) MarkDeleted() StoredFile {
	f.Status = StatusDeleted
	f.Deleted = true
	return f.touched()
}

// IncrementVersion records that a new content version was stored.
func (f StoredFile) IncrementVersion() StoredFile {
	f.CurrentVersion++
	return f.touched()
}
