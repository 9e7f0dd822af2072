package library

import (
	"context"
	"errors"
	"log/slog"

	"labvault/internal/domain"
	models "labvault/internal/domain/models/library"
	libRepo "labvault/internal/domain/repositories/library"
	libSvc "labvault/internal/domain/services/library"
)

// BreadcrumbResolver walks parent references from a folder up to the school
// root, producing the ordered path (root first, folder itself last).
type BreadcrumbResolver struct {
	folderRepo libRepo.FolderRepository
	logger     *slog.Logger
}

// NewBreadcrumbResolver creates a new breadcrumb resolver
func NewBreadcrumbResolver(folderRepo libRepo.FolderRepository, logger *slog.Logger) *BreadcrumbResolver {
	return &BreadcrumbResolver{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// Resolve returns the breadcrumb path for a folder. The cycle guard keeps
// persisted hierarchies acyclic, but the walk still carries a visited set so
// a corrupted parent chain (e.g. a manual database edit) terminates instead
// of looping. An ancestor that no longer resolves truncates the path there.
func (r *BreadcrumbResolver) Resolve(ctx context.Context, folder *models.Folder) ([]libSvc.BreadcrumbEntry, error) {
	entries := []libSvc.BreadcrumbEntry{{ID: folder.ID, Name: folder.Name}}
	visited := map[string]bool{folder.ID: true}

	current := folder.ParentID
	for current != nil {
		if visited[*current] {
			r.logger.Warn("breadcrumb walk hit a parent cycle",
				"folder_id", folder.ID,
				"repeated_id", *current,
			)
			break
		}

		node, err := r.folderRepo.GetByID(ctx, *current, folder.SchoolID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Tolerate partially-deleted trees: stop at the last resolvable ancestor.
				break
			}
			return nil, err
		}

		entries = append([]libSvc.BreadcrumbEntry{{ID: node.ID, Name: node.Name}}, entries...)
		visited[node.ID] = true
		current = node.ParentID
	}

	return entries, nil
}
