package library

import (
	"context"
	"log/slog"

	"labvault/internal/domain/models"
	libModels "labvault/internal/domain/models/library"
	libRepo "labvault/internal/domain/repositories/library"
	libSvc "labvault/internal/domain/services/library"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo libRepo.FolderRepository
	docRepo    libRepo.DocumentRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo libRepo.FolderRepository,
	docRepo libRepo.DocumentRepository,
	logger *slog.Logger,
) libSvc.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		logger:     logger,
	}
}

// GetSchoolTree builds and returns the nested folder/document tree for a school
func (s *treeService) GetSchoolTree(ctx context.Context, tenant models.TenantContext) (*libModels.TreeNode, error) {
	allFolders, err := s.folderRepo.ListAllBySchool(ctx, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	allDocuments, err := s.docRepo.ListAllBySchool(ctx, tenant.SchoolID)
	if err != nil {
		return nil, err
	}

	// Build folder hierarchy using 3-pass algorithm
	folderMap := make(map[string]*libModels.FolderTreeNode)
	var rootFolderIDs []string

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &libModels.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*libModels.FolderTreeNode{},
			Documents: []libModels.DocumentTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentID == nil {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
		} else {
			if parent, exists := folderMap[*folder.ParentID]; exists {
				parent.Folders = append(parent.Folders, node)
			}
		}
	}

	// Third pass: add documents to their folders
	rootDocuments := make([]libModels.DocumentTreeNode, 0)
	for _, doc := range allDocuments {
		docNode := libModels.DocumentTreeNode{
			ID:        doc.ID,
			Name:      doc.Name,
			FolderID:  doc.FolderID,
			SizeBytes: doc.SizeBytes,
			MimeType:  doc.MimeType,
			UpdatedAt: doc.UpdatedAt,
		}

		if doc.FolderID == nil {
			rootDocuments = append(rootDocuments, docNode)
		} else {
			if parent, exists := folderMap[*doc.FolderID]; exists {
				parent.Documents = append(parent.Documents, docNode)
			}
		}
	}

	rootFolders := make([]*libModels.FolderTreeNode, 0)
	for _, folderID := range rootFolderIDs {
		if node, exists := folderMap[folderID]; exists {
			rootFolders = append(rootFolders, node)
		}
	}

	tree := &libModels.TreeNode{
		Folders:   rootFolders,
		Documents: rootDocuments,
	}

	s.logger.Info("library tree built",
		"school_id", tenant.SchoolID,
		"folder_count", len(allFolders),
		"document_count", len(allDocuments),
	)

	return tree, nil
}
