package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"labvault/internal/domain"
	libModels "labvault/internal/domain/models/library"
	"labvault/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the scoping rules of the real
// Postgres repositories: every read excludes soft-deleted rows and rows
// outside the given school.

type fakeFolderRepo struct {
	folders map[string]*libModels.Folder
	nextID  int
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: map[string]*libModels.Folder{}}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *libModels.Folder) error {
	r.nextID++
	folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	stored := *folder
	r.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, schoolID string) (*libModels.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.SchoolID != schoolID || f.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *libModels.Folder) error {
	f, ok := r.folders[folder.ID]
	if !ok || f.SchoolID != folder.SchoolID || f.DeletedAt != nil {
		return domain.ErrNotFound
	}
	stored := *folder
	r.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) SoftDelete(ctx context.Context, id, schoolID string) error {
	f, ok := r.folders[id]
	if !ok || f.SchoolID != schoolID || f.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	f.DeletedAt = &now
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string, schoolID string) ([]libModels.Folder, error) {
	out := []libModels.Folder{}
	for _, f := range r.folders {
		if f.SchoolID != schoolID || f.DeletedAt != nil {
			continue
		}
		if sameRef(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) SearchByName(ctx context.Context, schoolID, query string) ([]libModels.Folder, error) {
	out := []libModels.Folder{}
	for _, f := range r.folders {
		if f.SchoolID != schoolID || f.DeletedAt != nil {
			continue
		}
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) CountChildren(ctx context.Context, folderID, schoolID string) (int, error) {
	children, _ := r.ListChildren(ctx, &folderID, schoolID)
	return len(children), nil
}

func (r *fakeFolderRepo) ReparentChildren(ctx context.Context, folderID string, newParentID *string, schoolID string) error {
	for _, f := range r.folders {
		if f.SchoolID != schoolID || f.DeletedAt != nil {
			continue
		}
		if f.ParentID != nil && *f.ParentID == folderID {
			f.ParentID = copyRef(newParentID)
		}
	}
	return nil
}

func (r *fakeFolderRepo) ListAllBySchool(ctx context.Context, schoolID string) ([]libModels.Folder, error) {
	out := []libModels.Folder{}
	for _, f := range r.folders {
		if f.SchoolID == schoolID && f.DeletedAt == nil {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeDocRepo struct {
	docs   map[string]*libModels.Document
	nextID int
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[string]*libModels.Document{}}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *libModels.Document) error {
	r.nextID++
	doc.ID = fmt.Sprintf("doc-%d", r.nextID)
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDocRepo) ListByFolder(ctx context.Context, folderID *string, schoolID string) ([]libModels.Document, error) {
	out := []libModels.Document{}
	for _, d := range r.docs {
		if d.SchoolID != schoolID || d.DeletedAt != nil {
			continue
		}
		if sameRef(d.FolderID, folderID) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocRepo) CountByFolder(ctx context.Context, folderID, schoolID string) (int, error) {
	docs, _ := r.ListByFolder(ctx, &folderID, schoolID)
	return len(docs), nil
}

func (r *fakeDocRepo) SumSizeByFolder(ctx context.Context, folderID, schoolID string) (int64, error) {
	docs, _ := r.ListByFolder(ctx, &folderID, schoolID)
	var total int64
	for _, d := range docs {
		total += d.SizeBytes
	}
	return total, nil
}

func (r *fakeDocRepo) MoveToFolder(ctx context.Context, ids []string, folderID *string, schoolID string) (int64, error) {
	var moved int64
	for _, id := range ids {
		d, ok := r.docs[id]
		if !ok || d.SchoolID != schoolID || d.DeletedAt != nil {
			continue
		}
		d.FolderID = copyRef(folderID)
		moved++
	}
	return moved, nil
}

func (r *fakeDocRepo) ReparentByFolder(ctx context.Context, folderID string, newFolderID *string, schoolID string) error {
	for _, d := range r.docs {
		if d.SchoolID != schoolID || d.DeletedAt != nil {
			continue
		}
		if d.FolderID != nil && *d.FolderID == folderID {
			d.FolderID = copyRef(newFolderID)
		}
	}
	return nil
}

func (r *fakeDocRepo) ListAllBySchool(ctx context.Context, schoolID string) ([]libModels.Document, error) {
	out := []libModels.Document{}
	for _, d := range r.docs {
		if d.SchoolID == schoolID && d.DeletedAt == nil {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeTxManager runs the function directly; the fakes mutate shared state so
// there is nothing to commit or roll back.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string {
	return &s
}

func docFixture(name string, folderID *string, size int64) *libModels.Document {
	now := time.Now()
	return &libModels.Document{
		SchoolID:   "school-1",
		FolderID:   copyRef(folderID),
		Name:       name,
		SizeBytes:  size,
		MimeType:   "application/octet-stream",
		URL:        "https://files.example.com/" + name,
		PublicID:   "pub-" + name,
		UploadedBy: "user-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
