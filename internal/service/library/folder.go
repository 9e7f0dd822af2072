package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"labvault/internal/config"
	"labvault/internal/domain"
	"labvault/internal/domain/models"
	libModels "labvault/internal/domain/models/library"
	"labvault/internal/domain/repositories"
	libRepo "labvault/internal/domain/repositories/library"
	libSvc "labvault/internal/domain/services/library"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// rootSentinel is the literal clients may send in place of a folder ID to
// address the school root.
const rootSentinel = "root"

type folderService struct {
	folderRepo libRepo.FolderRepository
	docRepo    libRepo.DocumentRepository
	sizer      *SizeAggregator
	crumbs     *BreadcrumbResolver
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo libRepo.FolderRepository,
	docRepo libRepo.DocumentRepository,
	sizer *SizeAggregator,
	crumbs *BreadcrumbResolver,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) libSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		sizer:      sizer,
		crumbs:     crumbs,
		txManager:  txManager,
		logger:     logger,
	}
}

// List lists folders at one level, or searches school-wide by name when a
// search term is present. Each folder is annotated with direct counts and
// its recursively computed total size.
func (s *folderService) List(ctx context.Context, tenant models.TenantContext, opts libSvc.ListOptions) ([]libSvc.FolderSummary, error) {
	var folders []libModels.Folder
	var err error

	if opts.Search != "" {
		folders, err = s.folderRepo.SearchByName(ctx, tenant.SchoolID, opts.Search)
	} else {
		folders, err = s.folderRepo.ListChildren(ctx, normalizeFolderRef(opts.ParentID), tenant.SchoolID)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]libSvc.FolderSummary, 0, len(folders))
	for _, folder := range folders {
		docCount, err := s.docRepo.CountByFolder(ctx, folder.ID, tenant.SchoolID)
		if err != nil {
			return nil, err
		}

		folderCount, err := s.folderRepo.CountChildren(ctx, folder.ID, tenant.SchoolID)
		if err != nil {
			return nil, err
		}

		size, err := s.sizer.TotalSize(ctx, tenant.SchoolID, folder.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, libSvc.FolderSummary{
			Folder:             folder,
			DocumentCount:      docCount,
			FolderCount:        folderCount,
			TotalSizeBytes:     size,
			TotalSizeFormatted: FormatSize(size),
		})
	}

	return summaries, nil
}

// Get retrieves a folder with its breadcrumb path and direct contents
func (s *folderService) Get(ctx context.Context, tenant models.TenantContext, id string) (*libSvc.FolderDetail, error) {
	folder, err := s.folderRepo.GetByID(ctx, id, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	breadcrumb, err := s.crumbs.Resolve(ctx, folder)
	if err != nil {
		return nil, err
	}

	children, err := s.folderRepo.ListChildren(ctx, &folder.ID, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByFolder(ctx, &folder.ID, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	return &libSvc.FolderDetail{
		Folder:     *folder,
		Breadcrumb: breadcrumb,
		Folders:    children,
		Documents:  docs,
	}, nil
}

// Create creates a new folder under an optional parent. Duplicate names at
// the same level are permitted.
func (s *folderService) Create(ctx context.Context, tenant models.TenantContext, req *libSvc.CreateFolderRequest) (*libModels.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateFolderName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parentID := normalizeFolderRef(req.ParentID)
	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID, tenant.SchoolID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &libModels.Folder{
		SchoolID:  tenant.SchoolID,
		ParentID:  parentID,
		Name:      req.Name,
		CreatedBy: tenant.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"school_id", tenant.SchoolID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Update renames and/or moves a folder. Moving runs the cycle guard.
func (s *folderService) Update(ctx context.Context, tenant models.TenantContext, id string, req *libSvc.UpdateFolderRequest) (*libModels.Folder, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one of name or parentId must be provided", domain.ErrValidation)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateFolderName(name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		folder.Name = name
	}

	// Tri-state: only touch the parent when the field was present in the request
	if req.ParentID.Present {
		newParent := normalizeFolderRef(req.ParentID.Value)
		if newParent != nil {
			parent, err := s.folderRepo.GetByID(ctx, *newParent, tenant.SchoolID)
			if err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}

			if err := s.guardAgainstCycle(ctx, tenant.SchoolID, id, parent.ID); err != nil {
				return nil, err
			}

			folder.ParentID = &parent.ID
		} else {
			folder.ParentID = nil
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Delete soft-deletes a folder. Its direct child folders and documents rise
// one level to the deleted folder's own parent. All three effects apply in a
// single transaction, so a reader never observes children pointing at a
// deleted parent.
func (s *folderService) Delete(ctx context.Context, tenant models.TenantContext, id string) error {
	folder, err := s.folderRepo.GetByID(ctx, id, tenant.SchoolID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.SoftDelete(txCtx, id, tenant.SchoolID); err != nil {
			return err
		}
		if err := s.folderRepo.ReparentChildren(txCtx, id, folder.ParentID, tenant.SchoolID); err != nil {
			return err
		}
		return s.docRepo.ReparentByFolder(txCtx, id, folder.ParentID, tenant.SchoolID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"school_id", tenant.SchoolID,
		"reparented_to", folder.ParentID,
	)

	return nil
}

// Copy deep-copies a folder under a target folder (nil = root). The top copy
// is named "<name> (Copy)"; nested children keep their names. Only live
// documents and child folders are duplicated, and document rows share the
// original file reference rather than copying any file.
func (s *folderService) Copy(ctx context.Context, tenant models.TenantContext, sourceID string, targetID *string) (*libModels.Folder, error) {
	source, err := s.folderRepo.GetByID(ctx, sourceID, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	target := normalizeFolderRef(targetID)
	if target != nil {
		if *target == sourceID {
			return nil, fmt.Errorf("%w: cannot copy a folder into itself", domain.ErrInvalidOperation)
		}
		if _, err := s.folderRepo.GetByID(ctx, *target, tenant.SchoolID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
		// A target inside the source subtree would make the copy recurse into
		// its own output.
		if err := s.guardAgainstCycle(ctx, tenant.SchoolID, sourceID, *target); err != nil {
			return nil, err
		}
	}

	copied, err := s.copySubtree(ctx, tenant, source, target, source.Name+" (Copy)")
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder copied",
		"source_id", sourceID,
		"copy_id", copied.ID,
		"target_id", target,
		"school_id", tenant.SchoolID,
	)

	return copied, nil
}

// copySubtree duplicates one folder with the given name and parent, then its
// live documents, then recurses into live child folders (post-order per node).
func (s *folderService) copySubtree(ctx context.Context, tenant models.TenantContext, source *libModels.Folder, parentID *string, name string) (*libModels.Folder, error) {
	now := time.Now()
	dup := &libModels.Folder{
		SchoolID:  tenant.SchoolID,
		ParentID:  parentID,
		Name:      name,
		CreatedBy: tenant.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, dup); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByFolder(ctx, &source.ID, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		docCopy := libModels.Document{
			SchoolID:   tenant.SchoolID,
			FolderID:   &dup.ID,
			Name:       doc.Name,
			SizeBytes:  doc.SizeBytes,
			MimeType:   doc.MimeType,
			URL:        doc.URL,
			PublicID:   doc.PublicID,
			UploadedBy: doc.UploadedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.docRepo.Create(ctx, &docCopy); err != nil {
			return nil, err
		}
	}

	children, err := s.folderRepo.ListChildren(ctx, &source.ID, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	for i := range children {
		// Nested copies keep their original names; only the top copy is suffixed.
		if _, err := s.copySubtree(ctx, tenant, &children[i], &dup.ID, children[i].Name); err != nil {
			return nil, err
		}
	}

	return dup, nil
}

// MoveDocuments reassigns documents to a folder (nil or "root" = school root).
// Document ids that match nothing in the school simply don't move; the count
// reflects rows actually updated.
func (s *folderService) MoveDocuments(ctx context.Context, tenant models.TenantContext, folderID *string, documentIDs []string) (int64, error) {
	target := normalizeFolderRef(folderID)
	if target != nil {
		if _, err := s.folderRepo.GetByID(ctx, *target, tenant.SchoolID); err != nil {
			return 0, fmt.Errorf("target folder: %w", err)
		}
	}

	if len(documentIDs) == 0 {
		return 0, nil
	}

	moved, err := s.docRepo.MoveToFolder(ctx, documentIDs, target, tenant.SchoolID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("documents moved",
		"count", moved,
		"target_id", target,
		"school_id", tenant.SchoolID,
	)

	return moved, nil
}

// BulkMove moves a set of folders under one target. Each move is checked by
// the cycle guard independently; folders that fail (missing, self-target, or
// would create a cycle) are skipped rather than aborting the batch.
func (s *folderService) BulkMove(ctx context.Context, tenant models.TenantContext, req *libSvc.BulkMoveRequest) (*libSvc.BulkMoveResult, error) {
	if len(req.FolderIDs) > config.MaxBulkMoveFolders {
		return nil, fmt.Errorf("%w: at most %d folders may be moved per request", domain.ErrValidation, config.MaxBulkMoveFolders)
	}

	target := normalizeFolderRef(req.TargetFolderID)
	if target != nil {
		if _, err := s.folderRepo.GetByID(ctx, *target, tenant.SchoolID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	result := &libSvc.BulkMoveResult{SkippedIDs: []string{}}

	for _, folderID := range req.FolderIDs {
		folder, err := s.folderRepo.GetByID(ctx, folderID, tenant.SchoolID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				result.SkippedIDs = append(result.SkippedIDs, folderID)
				continue
			}
			return nil, err
		}

		if target != nil {
			if err := s.guardAgainstCycle(ctx, tenant.SchoolID, folderID, *target); err != nil {
				if errors.Is(err, domain.ErrInvalidOperation) {
					result.SkippedIDs = append(result.SkippedIDs, folderID)
					continue
				}
				return nil, err
			}
		}

		folder.ParentID = target
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return nil, err
		}
		result.Moved++
	}

	s.logger.Info("folders bulk-moved",
		"moved", result.Moved,
		"skipped", len(result.SkippedIDs),
		"target_id", target,
		"school_id", tenant.SchoolID,
	)

	return result, nil
}

// guardAgainstCycle rejects a proposed parent that is the folder itself or
// one of its descendants. It walks up from the proposed parent comparing each
// ancestor link against the folder being moved, stopping at the root. The
// visited set bounds the walk even if the stored hierarchy is corrupted.
func (s *folderService) guardAgainstCycle(ctx context.Context, schoolID, folderID, proposedParentID string) error {
	if proposedParentID == folderID {
		return fmt.Errorf("%w: a folder cannot be its own parent", domain.ErrInvalidOperation)
	}

	visited := map[string]bool{}
	currentID := proposedParentID
	for {
		if visited[currentID] {
			return fmt.Errorf("%w: folder hierarchy contains a cycle", domain.ErrInvalidOperation)
		}
		visited[currentID] = true

		node, err := s.folderRepo.GetByID(ctx, currentID, schoolID)
		if err != nil {
			return err
		}

		if node.ParentID == nil {
			// Reached root without meeting the folder: move is safe.
			return nil
		}

		if *node.ParentID == folderID {
			return fmt.Errorf("%w: cannot move a folder under its own descendant", domain.ErrInvalidOperation)
		}

		currentID = *node.ParentID
	}
}

// normalizeFolderRef maps the client-facing root sentinel (nil, "" or "root")
// to a nil folder reference.
func normalizeFolderRef(id *string) *string {
	if id == nil || *id == "" || *id == rootSentinel {
		return nil
	}
	return id
}

// validateFolderName checks a trimmed folder name
func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
	)
}
