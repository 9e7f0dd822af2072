package library

import (
	"context"

	"labvault/internal/domain/models/library"
)

// FolderRepository defines data access operations for folders.
// All reads exclude soft-deleted rows; all operations are scoped to a school.
type FolderRepository interface {
	// Create inserts a new folder and fills in the generated ID and timestamps.
	Create(ctx context.Context, folder *library.Folder) error

	// GetByID retrieves a live folder by ID within a school.
	GetByID(ctx context.Context, id, schoolID string) (*library.Folder, error)

	// Update persists name/parent changes for a live folder.
	Update(ctx context.Context, folder *library.Folder) error

	// SoftDelete marks a folder deleted. The row is retained for history.
	SoftDelete(ctx context.Context, id, schoolID string) error

	// ListChildren lists immediate live child folders (nil parent = root level).
	ListChildren(ctx context.Context, parentID *string, schoolID string) ([]library.Folder, error)

	// SearchByName lists live folders matching a name fragment, ignoring hierarchy.
	SearchByName(ctx context.Context, schoolID, query string) ([]library.Folder, error)

	// CountChildren counts immediate live child folders.
	CountChildren(ctx context.Context, folderID, schoolID string) (int, error)

	// ReparentChildren moves every live direct child of folderID under newParentID.
	ReparentChildren(ctx context.Context, folderID string, newParentID *string, schoolID string) error

	// ListAllBySchool retrieves all live folders in a school (flat list).
	ListAllBySchool(ctx context.Context, schoolID string) ([]library.Folder, error)
}
