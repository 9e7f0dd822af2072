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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) libRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = "id, school_id, folder_id, name, size_bytes, mime_type, url, public_id, uploaded_by, created_at, updated_at"

// Create inserts a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (school_id, folder_id, name, size_bytes, mime_type, url, public_id, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.SchoolID,
		doc.FolderID,
		doc.Name,
		doc.SizeBytes,
		doc.MimeType,
		doc.URL,
		doc.PublicID,
		doc.UploadedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("target folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// ListByFolder lists live documents in a folder (nil = school root)
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID *string, schoolID string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE school_id = $1 AND folder_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, schoolID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE school_id = $1 AND folder_id = $2 AND deleted_at IS NULL
			ORDER BY name ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, schoolID, *folderID)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents in folder: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// CountByFolder counts live documents directly inside a folder
func (r *PostgresDocumentRepository) CountByFolder(ctx context.Context, folderID, schoolID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE folder_id = $1 AND school_id = $2 AND deleted_at IS NULL
	`, r.tables.Documents)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID, schoolID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return count, nil
}

// SumSizeByFolder sums the byte sizes of live documents directly inside a folder
func (r *PostgresDocumentRepository) SumSizeByFolder(ctx context.Context, folderID, schoolID string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(size_bytes), 0)
		FROM %s
		WHERE folder_id = $1 AND school_id = $2 AND deleted_at IS NULL
	`, r.tables.Documents)

	var total int64
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID, schoolID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum document sizes: %w", err)
	}

	return total, nil
}

// MoveToFolder reassigns the given documents to folderID (nil = root).
// Returns the number of rows actually updated; ids outside the school or
// already deleted are simply not matched.
func (r *PostgresDocumentRepository) MoveToFolder(ctx context.Context, ids []string, folderID *string, schoolID string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = ANY($2) AND school_id = $3 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, ids, schoolID)
	if err != nil {
		return 0, fmt.Errorf("move documents: %w", err)
	}

	return result.RowsAffected(), nil
}

// ReparentByFolder moves every live document of folderID into newFolderID
func (r *PostgresDocumentRepository) ReparentByFolder(ctx context.Context, folderID string, newFolderID *string, schoolID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE folder_id = $2 AND school_id = $3 AND deleted_at IS NULL
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, newFolderID, folderID, schoolID); err != nil {
		return fmt.Errorf("reparent documents: %w", err)
	}

	return nil
}

// ListAllBySchool retrieves all live documents in a school
func (r *PostgresDocumentRepository) ListAllBySchool(ctx context.Context, schoolID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE school_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list all documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// scanDocuments collects document rows, returning an empty slice instead of nil
func scanDocuments(rows pgx.Rows) ([]models.Document, error) {
	documents := []models.Document{}
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.SchoolID,
			&doc.FolderID,
			&doc.Name,
			&doc.SizeBytes,
			&doc.MimeType,
			&doc.URL,
			&doc.PublicID,
			&doc.UploadedBy,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}
