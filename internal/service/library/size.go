package library

import (
	"context"
	"fmt"

	libRepo "labvault/internal/domain/repositories/library"
)

// SizeAggregator computes recursive folder sizes. Sizes are always recomputed
// from current database state; there is no cache to invalidate.
type SizeAggregator struct {
	folderRepo libRepo.FolderRepository
	docRepo    libRepo.DocumentRepository
}

// NewSizeAggregator creates a new size aggregator
func NewSizeAggregator(folderRepo libRepo.FolderRepository, docRepo libRepo.DocumentRepository) *SizeAggregator {
	return &SizeAggregator{
		folderRepo: folderRepo,
		docRepo:    docRepo,
	}
}

// TotalSize returns the total byte size of all live documents directly inside
// the folder plus the recursively aggregated sizes of all live child folders.
// A folder ID that matches nothing contributes zero; a partially-deleted
// subtree is treated as empty, not as an error.
func (a *SizeAggregator) TotalSize(ctx context.Context, schoolID, folderID string) (int64, error) {
	total, err := a.docRepo.SumSizeByFolder(ctx, folderID, schoolID)
	if err != nil {
		return 0, fmt.Errorf("sum direct documents: %w", err)
	}

	children, err := a.folderRepo.ListChildren(ctx, &folderID, schoolID)
	if err != nil {
		return 0, fmt.Errorf("list child folders: %w", err)
	}

	for _, child := range children {
		sub, err := a.TotalSize(ctx, schoolID, child.ID)
		if err != nil {
			return 0, err
		}
		total += sub
	}

	return total, nil
}

// FormatSize renders a byte count for display, 1024-based with one decimal
// (e.g. 2097152 -> "2.0 MB"). Sub-kilobyte sizes are shown as whole bytes.
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	for _, unit := range []string{"KB", "MB", "GB", "TB", "PB"} {
		value /= 1024
		// Values that %.1f would round up to 1024.0 roll over to the next unit
		if value < 1023.95 || unit == "PB" {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%d B", bytes) // unreachable
}
