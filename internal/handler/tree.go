package handler

import (
	"log/slog"
	"net/http"

	libSvc "labvault/internal/domain/services/library"
	"labvault/internal/httputil"
)

// TreeHandler serves the full nested library tree
type TreeHandler struct {
	treeService libSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService libSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder/document tree for the caller's school
// GET /api/folders/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	tree, err := h.treeService.GetSchoolTree(r.Context(), tenant)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
