package library

import (
	"context"

	"labvault/internal/domain/models"
	"labvault/internal/domain/models/library"
	"labvault/internal/httputil"
)

// FolderService handles folder hierarchy business logic.
// Every call is scoped by an explicit TenantContext.
type FolderService interface {
	// List lists folders at one level (or searches school-wide by name),
	// annotated with direct counts and recursive total size.
	List(ctx context.Context, tenant models.TenantContext, opts ListOptions) ([]FolderSummary, error)

	// Get retrieves a folder with its breadcrumb path and direct contents.
	Get(ctx context.Context, tenant models.TenantContext, id string) (*FolderDetail, error)

	// Create creates a new folder under an optional parent.
	Create(ctx context.Context, tenant models.TenantContext, req *CreateFolderRequest) (*library.Folder, error)

	// Update renames and/or moves a folder. Moves run the cycle guard.
	Update(ctx context.Context, tenant models.TenantContext, id string, req *UpdateFolderRequest) (*library.Folder, error)

	// Delete soft-deletes a folder and atomically re-parents its direct child
	// folders and documents to the folder's own parent.
	Delete(ctx context.Context, tenant models.TenantContext, id string) error

	// Copy deep-copies a folder (and its live subtree) under a target folder,
	// naming the top copy "<name> (Copy)".
	Copy(ctx context.Context, tenant models.TenantContext, sourceID string, targetID *string) (*library.Folder, error)

	// MoveDocuments reassigns documents to a folder (nil = root) and returns
	// the number actually moved.
	MoveDocuments(ctx context.Context, tenant models.TenantContext, folderID *string, documentIDs []string) (int64, error)

	// BulkMove moves a set of folders under one target. Folders rejected by
	// the cycle guard are skipped, not treated as failures.
	BulkMove(ctx context.Context, tenant models.TenantContext, req *BulkMoveRequest) (*BulkMoveResult, error)
}

// ListOptions selects which folders List returns. A non-empty Search wins
// over ParentID and matches names school-wide, ignoring hierarchy.
type ListOptions struct {
	ParentID *string
	Search   string
}

// CreateFolderRequest represents a folder creation request.
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"` // nil or "root" = root level
}

// UpdateFolderRequest represents a rename/move request. ParentID is tri-state:
// absent = keep current parent, null (or "root") = move to root, id = move.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parentId,omitempty"`
}

// BulkMoveRequest moves several folders under a single target in one call.
type BulkMoveRequest struct {
	FolderIDs      []string `json:"folderIds"`
	TargetFolderID *string  `json:"targetFolderId"` // nil or "root" = root level
}

// BulkMoveResult reports how many folders moved and which were skipped by
// the cycle guard.
type BulkMoveResult struct {
	Moved      int      `json:"moved"`
	SkippedIDs []string `json:"skippedFolderIds"`
}

// FolderSummary is a folder annotated for level listings. The annotation
// keys are camelCase like the rest of the request/response surface.
type FolderSummary struct {
	library.Folder
	DocumentCount      int    `json:"documentCount"`
	FolderCount        int    `json:"folderCount"`
	TotalSizeBytes     int64  `json:"totalSizeBytes"`
	TotalSizeFormatted string `json:"totalSizeFormatted"`
}

// BreadcrumbEntry is one step of the root-first path to a folder.
type BreadcrumbEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderDetail is a folder with its breadcrumb path and direct contents.
type FolderDetail struct {
	Folder     library.Folder     `json:"folder"`
	Breadcrumb []BreadcrumbEntry  `json:"breadcrumb"`
	Folders    []library.Folder   `json:"folders"`
	Documents  []library.Document `json:"documents"`
}
