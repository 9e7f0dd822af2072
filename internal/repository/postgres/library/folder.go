package library

import (
	"context"
	"fmt"
	"log/slog"

	"labvault/internal/domain"
	models "labvault/internal/domain/models/library"
	libRepo "labvault/internal/domain/repositories/library"

	"labvault/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) libRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const folderColumns = "id, school_id, parent_id, name, created_by, created_at, updated_at"

// Create inserts a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (school_id, parent_id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.SchoolID,
		folder.ParentID,
		folder.Name,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		// Parent rows are checked before insert, but a concurrent hard delete
		// can still trip the FK.
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a live folder by ID within a school
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, schoolID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND school_id = $2 AND deleted_at IS NULL
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, schoolID).Scan(
		&folder.ID,
		&folder.SchoolID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update persists name/parent changes for a live folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND school_id = $5 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
		folder.SchoolID,
	)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks a folder deleted, keeping the row for history
func (r *PostgresFolderRepository) SoftDelete(ctx context.Context, id, schoolID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND school_id = $2 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, schoolID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate live child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, schoolID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE school_id = $1 AND parent_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, schoolID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE school_id = $1 AND parent_id = $2 AND deleted_at IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, schoolID, *parentID)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// SearchByName lists live folders matching a name fragment, ignoring hierarchy
func (r *PostgresFolderRepository) SearchByName(ctx context.Context, schoolID, search string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE school_id = $1 AND name ILIKE '%%' || $2 || '%%' AND deleted_at IS NULL
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, schoolID, search)
	if err != nil {
		return nil, fmt.Errorf("search folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// CountChildren counts immediate live child folders
func (r *PostgresFolderRepository) CountChildren(ctx context.Context, folderID, schoolID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE parent_id = $1 AND school_id = $2 AND deleted_at IS NULL
	`, r.tables.Folders)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID, schoolID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folder children: %w", err)
	}

	return count, nil
}

// ReparentChildren moves every live direct child of folderID under newParentID
func (r *PostgresFolderRepository) ReparentChildren(ctx context.Context, folderID string, newParentID *string, schoolID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = NOW()
		WHERE parent_id = $2 AND school_id = $3 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, newParentID, folderID, schoolID); err != nil {
		return fmt.Errorf("reparent child folders: %w", err)
	}

	return nil
}

// ListAllBySchool retrieves all live folders in a school (flat list)
func (r *PostgresFolderRepository) ListAllBySchool(ctx context.Context, schoolID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE school_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list all folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// scanFolders collects folder rows, returning an empty slice instead of nil
func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.SchoolID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedBy,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
