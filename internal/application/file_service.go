package application

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/internal/domain/files"
	"github.com/neurixa/neurixa/pkg/apperr"
)

// FileService drives the personal file/folder store. Every operation is
// scoped to the owner taken from the request principal; files and folders of
// other users surface as not found.
type FileService struct {
	Files            files.FileRepository
	Folders          files.FolderRepository
	Versions         files.FileVersionRepository
	Storage          files.StorageProvider
	AllowedMimeTypes map[string]struct{}
	MaxFileSize      int64
	Logger           *logrus.Logger
}

func NewFileService(fileRepo files.FileRepository, folderRepo files.FolderRepository, versionRepo files.FileVersionRepository, storage files.StorageProvider, allowedMimeTypes map[string]struct{}, maxFileSize int64, logger *logrus.Logger) *FileService {
	return &FileService{
		Files:            fileRepo,
		Folders:          folderRepo,
		Versions:         versionRepo,
		Storage:          storage,
		AllowedMimeTypes: allowedMimeTypes,
		MaxFileSize:      maxFileSize,
		Logger:           logger,
	}
}

// Upload validates size and MIME type, stores the blob, and records the file
// with its first version.
func (s *FileService) Upload(ctx context.Context, ownerID, filename, mimeType string, size int64, targetFolderID string, data io.Reader) (files.StoredFile, error) {
	if size > s.MaxFileSize {
		return files.StoredFile{}, apperr.InvalidInput("File size exceeds the maximum allowed limit")
	}
	if _, ok := s.AllowedMimeTypes[mimeType]; !ok {
		return files.StoredFile{}, apperr.InvalidInput("File MIME type is not allowed")
	}

	if targetFolderID != "" {
		folder, err := s.Folders.FindByIDAndOwner(ctx, targetFolderID, ownerID)
		if err != nil || folder.Deleted {
			return files.StoredFile{}, apperr.Forbidden("Folder not found or you don't have access")
		}
	}

	storageKey, err := s.Storage.Store(ctx, data, filename)
	if err != nil {
		return files.StoredFile{}, err
	}

	file, err := files.NewStoredFile(ownerID, filename, mimeType, size, targetFolderID)
	if err != nil {
		return files.StoredFile{}, err
	}
	saved, err := s.Files.Save(ctx, file.MarkActive())
	if err != nil {
		return files.StoredFile{}, err
	}

	version, err := files.NewFileVersion(saved.ID, 1, storageKey, size, "")
	if err != nil {
		return files.StoredFile{}, err
	}
	if _, err := s.Versions.Save(ctx, version); err != nil {
		return files.StoredFile{}, err
	}

	s.Logger.WithFields(logrus.Fields{"file_id": saved.ID, "owner_id": ownerID}).Info("file uploaded")
	return saved, nil
}

// UploadVersion stores new content for an existing file as its next version.
// Older versions stay retrievable through the version history.
func (s *FileService) UploadVersion(ctx context.Context, ownerID, fileID, mimeType string, size int64, data io.Reader) (files.StoredFile, error) {
	if size > s.MaxFileSize {
		return files.StoredFile{}, apperr.InvalidInput("File size exceeds the maximum allowed limit")
	}
	if _, ok := s.AllowedMimeTypes[mimeType]; !ok {
		return files.StoredFile{}, apperr.InvalidInput("File MIME type is not allowed")
	}
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return files.StoredFile{}, err
	}
	if file.Deleted {
		return files.StoredFile{}, apperr.NotFound("File not found: " + fileID)
	}

	storageKey, err := s.Storage.Store(ctx, data, file.Name)
	if err != nil {
		return files.StoredFile{}, err
	}

	bumped := file.IncrementVersion()
	bumped.MimeType = mimeType
	bumped.Size = size
	version, err := files.NewFileVersion(file.ID, bumped.CurrentVersion, storageKey, size, "")
	if err != nil {
		return files.StoredFile{}, err
	}
	if _, err := s.Versions.Save(ctx, version); err != nil {
		return files.StoredFile{}, err
	}
	saved, err := s.Files.Save(ctx, bumped)
	if err != nil {
		return files.StoredFile{}, err
	}
	s.Logger.WithFields(logrus.Fields{"file_id": saved.ID, "version": saved.CurrentVersion}).Info("file version uploaded")
	return saved, nil
}

// CreateFolder creates a root folder, or a child when parentID is given.
func (s *FileService) CreateFolder(ctx context.Context, ownerID, name, parentID string) (files.Folder, error) {
	if parentID == "" {
		folder, err := files.NewRootFolder(ownerID, name)
		if err != nil {
			return files.Folder{}, err
		}
		return s.Folders.Save(ctx, folder)
	}
	parent, err := s.Folders.FindByIDAndOwner(ctx, parentID, ownerID)
	if err != nil {
		return files.Folder{}, err
	}
	folder, err := files.NewChildFolder(ownerID, name, parent)
	if err != nil {
		return files.Folder{}, err
	}
	return s.Folders.Save(ctx, folder)
}

// ListFolderContent returns one page of a folder's subfolders and files.
// folderID "" lists the root level.
func (s *FileService) ListFolderContent(ctx context.Context, ownerID, folderID string, page, size int) (files.FolderContent, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	if folderID != "" {
		if _, err := s.Folders.FindByIDAndOwner(ctx, folderID, ownerID); err != nil {
			return files.FolderContent{}, err
		}
	}

	folders, folderTotal, err := s.Folders.ListChildren(ctx, ownerID, folderID, page, size)
	if err != nil {
		return files.FolderContent{}, err
	}
	fileList, fileTotal, err := s.Files.ListByFolder(ctx, ownerID, folderID, page, size)
	if err != nil {
		return files.FolderContent{}, err
	}

	total := folderTotal + fileTotal
	totalPages := int((total + int64(size) - 1) / int64(size))
	return files.FolderContent{
		Folders:       folders,
		Files:         fileList,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *FileService) RenameFile(ctx context.Context, ownerID, fileID, newName string) (files.StoredFile, error) {
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return files.StoredFile{}, err
	}
	renamed, err := file.Rename(newName)
	if err != nil {
		return files.StoredFile{}, err
	}
	return s.Files.Save(ctx, renamed)
}

// MoveFile relocates a file into another folder the owner controls, or to
// the root when newFolderID is empty.
func (s *FileService) MoveFile(ctx context.Context, ownerID, fileID, newFolderID string) (files.StoredFile, error) {
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return files.StoredFile{}, err
	}
	if newFolderID != "" {
		folder, err := s.Folders.FindByIDAndOwner(ctx, newFolderID, ownerID)
		if err != nil || folder.Deleted {
			return files.StoredFile{}, apperr.Forbidden("Folder not found or you don't have access")
		}
	}
	return s.Files.Save(ctx, file.Move(newFolderID))
}

// DeleteFile soft-deletes the metadata record; blobs stay in storage for
// version history.
func (s *FileService) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if file.Deleted {
		return apperr.InvalidState("File is already deleted.")
	}
	_, err = s.Files.Save(ctx, file.MarkDeleted())
	return err
}

// Download streams the current version of a file.
func (s *FileService) Download(ctx context.Context, ownerID, fileID string) (files.StoredFile, io.ReadCloser, error) {
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return files.StoredFile{}, nil, err
	}
	if file.Deleted {
		return files.StoredFile{}, nil, apperr.NotFound("File not found: " + fileID)
	}
	version, err := s.Versions.FindByFileAndVersion(ctx, file.ID, file.CurrentVersion)
	if err != nil {
		return files.StoredFile{}, nil, err
	}
	rc, err := s.Storage.Retrieve(ctx, version.StorageKey)
	if err != nil {
		return files.StoredFile{}, nil, err
	}
	return file, rc, nil
}

// ListVersions returns the version history of a file the owner controls.
func (s *FileService) ListVersions(ctx context.Context, ownerID, fileID string) ([]files.FileVersion, error) {
	file, err := s.Files.FindByIDAndOwner(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Versions.ListByFile(ctx, file.ID)
}
