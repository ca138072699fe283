package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neurixa/neurixa/internal/domain/files"
	"github.com/neurixa/neurixa/pkg/apperr"
)

const fileColumns = `id, owner_id, name, mime_type, size, folder_id, status, current_version, deleted, created_at, updated_at`

// FileRepository persists file metadata. Owner scoping happens in the query,
// so a foreign id behaves exactly like a missing one.
type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

func (r *FileRepository) Save(ctx context.Context, f files.StoredFile) (files.StoredFile, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO files (id, owner_id, name, mime_type, size, folder_id, status, current_version, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			folder_id = EXCLUDED.folder_id,
			status = EXCLUDED.status,
			current_version = EXCLUDED.current_version,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`, f.ID, f.OwnerID, f.Name, f.MimeType, f.Size, f.FolderID, string(f.Status), f.CurrentVersion, f.Deleted, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return files.StoredFile{}, err
	}
	return f, nil
}

func (r *FileRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (files.StoredFile, error) {
	f, err := scanFile(r.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return files.StoredFile{}, apperr.NotFound("File not found: " + id)
		}
		return files.StoredFile{}, err
	}
	return f, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, ownerID, folderID string, page, size int) ([]files.StoredFile, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM files WHERE owner_id = $1 AND folder_id = $2 AND deleted = false`,
		ownerID, folderID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files WHERE owner_id = $1 AND folder_id = $2 AND deleted = false ORDER BY name ASC LIMIT $3 OFFSET $4`,
		ownerID, folderID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]files.StoredFile, 0, size)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func scanFile(row pgx.Row) (files.StoredFile, error) {
	var (
		f      files.StoredFile
		status string
	)
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.MimeType, &f.Size, &f.FolderID, &status,
		&f.CurrentVersion, &f.Deleted, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return files.StoredFile{}, err
	}
	f.Status = files.FileStatus(status)
	return f, nil
}

var _ files.FileRepository = (*FileRepository)(nil)

const folderColumns = `id, owner_id, name, parent_id, path, deleted, created_at, updated_at`

// FolderRepository persists the folder tree.
type FolderRepository struct {
	pool *pgxpool.Pool
}

func NewFolderRepository(pool *pgxpool.Pool) *FolderRepository {
	return &FolderRepository{pool: pool}
}

func (r *FolderRepository) Save(ctx context.Context, f files.Folder) (files.Folder, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO folders (id, owner_id, name, parent_id, path, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`, f.ID, f.OwnerID, f.Name, f.ParentID, f.Path, f.Deleted, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return files.Folder{}, err
	}
	return f, nil
}

func (r *FolderRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (files.Folder, error) {
	f, err := scanFolder(r.pool.QueryRow(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return files.Folder{}, apperr.NotFound("Folder not found: " + id)
		}
		return files.Folder{}, err
	}
	return f, nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, ownerID, parentID string, page, size int) ([]files.Folder, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM folders WHERE owner_id = $1 AND parent_id = $2 AND deleted = false`,
		ownerID, parentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE owner_id = $1 AND parent_id = $2 AND deleted = false ORDER BY name ASC LIMIT $3 OFFSET $4`,
		ownerID, parentID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]files.Folder, 0, size)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func scanFolder(row pgx.Row) (files.Folder, error) {
	var f files.Folder
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.ParentID, &f.Path, &f.Deleted,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		return files.Folder{}, err
	}
	return f, nil
}

var _ files.FolderRepository = (*FolderRepository)(nil)

// FileVersionRepository persists version records. Versions are append-only.
type FileVersionRepository struct {
	pool *pgxpool.Pool
}

func NewFileVersionRepository(pool *pgxpool.Pool) *FileVersionRepository {
	return &FileVersionRepository{pool: pool}
}

func (r *FileVersionRepository) Save(ctx context.Context, v files.FileVersion) (files.FileVersion, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO file_versions (id, file_id, version, storage_key, size, checksum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.FileID, v.Version, v.StorageKey, v.Size, v.Checksum, v.CreatedAt)
	if err != nil {
		return files.FileVersion{}, err
	}
	return v, nil
}

func (r *FileVersionRepository) FindByFileAndVersion(ctx context.Context, fileID string, version int) (files.FileVersion, error) {
	var v files.FileVersion
	err := r.pool.QueryRow(ctx,
		`SELECT id, file_id, version, storage_key, size, checksum, created_at FROM file_versions WHERE file_id = $1 AND version = $2`,
		fileID, version).Scan(&v.ID, &v.FileID, &v.Version, &v.StorageKey, &v.Size, &v.Checksum, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return files.FileVersion{}, apperr.NotFound("File version not found")
		}
		return files.FileVersion{}, err
	}
	return v, nil
}

func (r *FileVersionRepository) ListByFile(ctx context.Context, fileID string) ([]files.FileVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, file_id, version, storage_key, size, checksum, created_at FROM file_versions WHERE file_id = $1 ORDER BY version DESC`,
		fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []files.FileVersion
	for rows.Next() {
		var v files.FileVersion
		if err := rows.Scan(&v.ID, &v.FileID, &v.Version, &v.StorageKey, &v.Size, &v.Checksum, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ files.FileVersionRepository = (*FileVersionRepository)(nil)
