package handler

import (
	"log/slog"
	"net/http"

	"labvault/internal/domain/models"
	libSvc "labvault/internal/domain/services/library"
	"labvault/internal/httputil"
)

// mutatingRoles may create, rename, move and copy folders. Deletion is
// restricted further to admins and principals.
var mutatingRoles = []models.Role{
	models.RoleAdmin,
	models.RolePrincipal,
	models.RoleLabAssistant,
	models.RoleInstructor,
}

var deletingRoles = []models.Role{
	models.RoleAdmin,
	models.RolePrincipal,
}

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService libSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService libSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// List lists folders at one level, or searches school-wide by name
// GET /api/folders?parentId=&search=
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	opts := libSvc.ListOptions{Search: r.URL.Query().Get("search")}
	if parentID := r.URL.Query().Get("parentId"); parentID != "" {
		opts.ParentID = &parentID
	}

	folders, err := h.folderService.List(r.Context(), tenant, opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"folders": folders})
}

// Get retrieves a folder with its breadcrumb path and direct contents
// GET /api/folders/{id}
func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	detail, err := h.folderService.Get(r.Context(), tenant, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// Create creates a new folder
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, mutatingRoles...) {
		return
	}

	var req libSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.Create(r.Context(), tenant, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusCreated, "folder created", folder)
}

// Update renames and/or moves a folder
// PUT /api/folders/{id}
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, mutatingRoles...) {
		return
	}

	var req libSvc.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.Update(r.Context(), tenant, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "folder updated", folder)
}

// Delete soft-deletes a folder, re-parenting its contents one level up
// DELETE /api/folders/{id}
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, deletingRoles...) {
		return
	}

	if err := h.folderService.Delete(r.Context(), tenant, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "folder deleted", nil)
}

// MoveDocuments bulk-reassigns documents into a folder; {id} may be "root"
// POST /api/folders/{id}/move-documents
func (h *FolderHandler) MoveDocuments(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, mutatingRoles...) {
		return
	}

	var req struct {
		DocumentIDs []string `json:"documentIds"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	moved, err := h.folderService.MoveDocuments(r.Context(), tenant, &id, req.DocumentIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "documents moved", map[string]int64{"moved": moved})
}

// Copy deep-copies a folder into a target; targetFolderId may be "root"
// POST /api/folders/{id}/copy
func (h *FolderHandler) Copy(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, mutatingRoles...) {
		return
	}

	var req struct {
		TargetFolderID *string `json:"targetFolderId"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.Copy(r.Context(), tenant, r.PathValue("id"), req.TargetFolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusCreated, "folder copied", folder)
}

// BulkMove moves several folders under one target, skipping cycle conflicts
// POST /api/folders/bulk-move
func (h *FolderHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	if !requireRole(w, tenant, mutatingRoles...) {
		return
	}

	var req libSvc.BulkMoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.folderService.BulkMove(r.Context(), tenant, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "folders moved", result)
}
