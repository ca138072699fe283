package files

import (
	"context"
	"io"
)

// FolderContent is one page of a folder listing: subfolders first, then
// files, ordered by name.
type FolderContent struct {
	Folders       []Folder
	Files         []StoredFile
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
}

// FileRepository persists file metadata. Lookups are owner-scoped; a file
// belonging to someone else is apperr.KindNotFound, not KindForbidden, so
// existence does not leak.
type FileRepository interface {
	Save(ctx context.Context, f StoredFile) (StoredFile, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (StoredFile, error)
	ListByFolder(ctx context.Context, ownerID, folderID string, page, size int) ([]StoredFile, int64, error)
}

type FolderRepository interface {
	Save(ctx context.Context, f Folder) (Folder, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (Folder, error)
	ListChildren(ctx context.Context, ownerID, parentID string, page, size int) ([]Folder, int64, error)
}

type FileVersionRepository interface {
	Save(ctx context.Context, v FileVersion) (FileVersion, error)
	FindByFileAndVersion(ctx context.Context, fileID string, version int) (FileVersion, error)
	ListByFile(ctx context.Context, fileID string) ([]FileVersion, error)
}

// StorageProvider moves blob bytes in and out of the backing store (local
// disk or a cloud bucket).
type StorageProvider interface {
	Store(ctx context.Context, data io.Reader, filename string) (storageKey string, err error)
	Retrieve(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
