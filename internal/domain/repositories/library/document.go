package library

import (
	"context"

	"labvault/internal/domain/models/library"
)

// DocumentRepository defines data access operations for documents.
// The library component never touches file storage; it only moves and
// duplicates metadata rows.
type DocumentRepository interface {
	// Create inserts a new document row and fills in the generated ID and timestamps.
	Create(ctx context.Context, doc *library.Document) error

	// ListByFolder lists live documents in a folder (nil = school root).
	ListByFolder(ctx context.Context, folderID *string, schoolID string) ([]library.Document, error)

	// CountByFolder counts live documents directly inside a folder.
	CountByFolder(ctx context.Context, folderID, schoolID string) (int, error)

	// SumSizeByFolder sums the byte sizes of live documents directly inside a folder.
	SumSizeByFolder(ctx context.Context, folderID, schoolID string) (int64, error)

	// MoveToFolder reassigns the given documents to folderID (nil = root) and
	// returns the number of rows actually updated. Documents outside the school
	// or already deleted are simply not matched.
	MoveToFolder(ctx context.Context, ids []string, folderID *string, schoolID string) (int64, error)

	// ReparentByFolder moves every live document of folderID into newFolderID.
	ReparentByFolder(ctx context.Context, folderID string, newFolderID *string, schoolID string) error

	// ListAllBySchool retrieves all live documents in a school (metadata listing).
	ListAllBySchool(ctx context.Context, schoolID string) ([]library.Document, error)
}
