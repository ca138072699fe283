package files

import (
	"time"

	"github.com/google/uuid"

	"github.com/neurixa/neurixa/pkg/apperr"
)

// Folder is a node in a user's folder tree. Path is the materialized chain
// of folder ids from the root, so subtree queries are prefix scans.
type Folder struct {
	ID        string
	OwnerID   string
	Name      string
	ParentID  string // empty = root folder
	Path      string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRootFolder creates a top-level folder.
func NewRootFolder(ownerID, name string) (Folder, error) {
	if ownerID == "" {
		return Folder{}, apperr.InvalidInput("owner id is required")
	}
	if name == "" {
		return Folder{}, apperr.InvalidInput("folder name is required")
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	return Folder{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Path:      "/" + id,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewChildFolder creates a folder under parent, which must share the owner.
func NewChildFolder(ownerID, name string, parent Folder) (Folder, error) {
	if name == "" {
		return Folder{}, apperr.InvalidInput("folder name is required")
	}
	if parent.OwnerID != ownerID {
		return Folder{}, apperr.Forbidden("Folder not found or you don't have access")
	}
	if parent.Deleted {
		return Folder{}, apperr.InvalidState("Cannot create a folder under a deleted folder.")
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	return Folder{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		ParentID:  parent.ID,
		Path:      parent.Path + "/" + id,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (f Folder) Rename(newName string) (Folder, error) {
	if newName == "" {
		return Folder{}, apperr.InvalidInput("new name is required")
	}
	f.Name = newName
	f.UpdatedAt = time.Now().UTC()
	return f, nil
}

func (f Folder) MarkDeleted() Folder {
	f.Deleted = true
	f.UpdatedAt = time.Now().UTC()
	return f
}
