package library

import (
	"context"

	"labvault/internal/domain/models"
	"labvault/internal/domain/models/library"
)

// TreeService defines operations for building the full library tree.
type TreeService interface {
	// GetSchoolTree builds the nested folder/document tree for a school.
	GetSchoolTree(ctx context.Context, tenant models.TenantContext) (*library.TreeNode, error)
}
