package library

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"labvault/internal/domain"
	"labvault/internal/domain/models"
	libSvc "labvault/internal/domain/services/library"
	"labvault/internal/httputil"
)

const (
	testSchoolID = "school-1"
	testUserID   = "user-1"
)

func testTenant() models.TenantContext {
	return models.TenantContext{
		UserID:   testUserID,
		SchoolID: testSchoolID,
		Role:     models.RoleAdmin,
	}
}

type testEnv struct {
	svc        libSvc.FolderService
	folderRepo *fakeFolderRepo
	docRepo    *fakeDocRepo
}

func newTestEnv() *testEnv {
	folderRepo := newFakeFolderRepo()
	docRepo := newFakeDocRepo()
	logger := testLogger()
	sizer := NewSizeAggregator(folderRepo, docRepo)
	crumbs := NewBreadcrumbResolver(folderRepo, logger)
	svc := NewFolderService(folderRepo, docRepo, sizer, crumbs, fakeTxManager{}, logger)
	return &testEnv{svc: svc, folderRepo: folderRepo, docRepo: docRepo}
}

// mustCreate seeds a folder directly through the service.
func (e *testEnv) mustCreate(t *testing.T, name string, parentID *string) string {
	t.Helper()
	folder, err := e.svc.Create(context.Background(), testTenant(), &libSvc.CreateFolderRequest{
		Name:     name,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}
	return folder.ID
}

func (e *testEnv) mustAddDoc(t *testing.T, name string, folderID *string, size int64) string {
	t.Helper()
	doc := docFixture(name, folderID, size)
	if err := e.docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create document %q: %v", name, err)
	}
	return doc.ID
}

func TestCreateFolder(t *testing.T) {
	tests := []struct {
		name     string
		reqName  string
		parentID *string
		wantErr  error
		wantName string
	}{
		{
			name:     "simple root folder",
			reqName:  "Chemistry Lab",
			wantName: "Chemistry Lab",
		},
		{
			name:     "name is trimmed",
			reqName:  "  Physics Lab  ",
			wantName: "Physics Lab",
		},
		{
			name:     "root sentinel means root level",
			reqName:  "Admin",
			parentID: strPtr("root"),
			wantName: "Admin",
		},
		{
			name:    "empty name rejected",
			reqName: "",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "whitespace-only name rejected",
			reqName: "   ",
			wantErr: domain.ErrValidation,
		},
		{
			name:     "missing parent rejected",
			reqName:  "Orphan",
			parentID: strPtr("no-such-folder"),
			wantErr:  domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			folder, err := env.svc.Create(context.Background(), testTenant(), &libSvc.CreateFolderRequest{
				Name:     tt.reqName,
				ParentID: tt.parentID,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if folder.Name != tt.wantName {
				t.Errorf("name = %q, want %q", folder.Name, tt.wantName)
			}
			if folder.ParentID != nil {
				t.Errorf("expected root-level folder, got parent %q", *folder.ParentID)
			}
			if folder.CreatedBy != testUserID {
				t.Errorf("created_by = %q, want %q", folder.CreatedBy, testUserID)
			}
		})
	}
}

func TestCreateFolderAllowsDuplicateNames(t *testing.T) {
	env := newTestEnv()
	parent := env.mustCreate(t, "Labs", nil)

	env.mustCreate(t, "Worksheets", &parent)
	env.mustCreate(t, "Worksheets", &parent)

	children, err := env.folderRepo.ListChildren(context.Background(), &parent, testSchoolID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 sibling folders with the same name, got %d", len(children))
	}
}

func TestUpdateFolder(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		env := newTestEnv()
		id := env.mustCreate(t, "Old Name", nil)

		updated, err := env.svc.Update(context.Background(), testTenant(), id, &libSvc.UpdateFolderRequest{
			Name: strPtr("New Name"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "New Name" {
			t.Errorf("name = %q, want %q", updated.Name, "New Name")
		}
	})

	t.Run("no fields rejected", func(t *testing.T) {
		env := newTestEnv()
		id := env.mustCreate(t, "A", nil)

		_, err := env.svc.Update(context.Background(), testTenant(), id, &libSvc.UpdateFolderRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("move to another folder", func(t *testing.T) {
		env := newTestEnv()
		a := env.mustCreate(t, "A", nil)
		b := env.mustCreate(t, "B", nil)

		updated, err := env.svc.Update(context.Background(), testTenant(), a, &libSvc.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: &b},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ParentID == nil || *updated.ParentID != b {
			t.Errorf("parent = %v, want %q", updated.ParentID, b)
		}
	})

	t.Run("move to root via null", func(t *testing.T) {
		env := newTestEnv()
		parent := env.mustCreate(t, "Parent", nil)
		child := env.mustCreate(t, "Child", &parent)

		updated, err := env.svc.Update(context.Background(), testTenant(), child, &libSvc.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: nil},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ParentID != nil {
			t.Errorf("expected root-level folder, got parent %q", *updated.ParentID)
		}
	})

	t.Run("self parent rejected", func(t *testing.T) {
		env := newTestEnv()
		id := env.mustCreate(t, "A", nil)

		_, err := env.svc.Update(context.Background(), testTenant(), id, &libSvc.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: &id},
		})
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("move under own descendant rejected", func(t *testing.T) {
		env := newTestEnv()
		a := env.mustCreate(t, "A", nil)
		b := env.mustCreate(t, "B", &a)
		c := env.mustCreate(t, "C", &b)

		_, err := env.svc.Update(context.Background(), testTenant(), a, &libSvc.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: &c},
		})
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("missing target parent rejected", func(t *testing.T) {
		env := newTestEnv()
		id := env.mustCreate(t, "A", nil)

		_, err := env.svc.Update(context.Background(), testTenant(), id, &libSvc.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: strPtr("missing")},
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteFolderReparentsContents(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	grandparent := env.mustCreate(t, "Grandparent", nil)
	parent := env.mustCreate(t, "Parent", &grandparent)
	child := env.mustCreate(t, "Child", &parent)
	docID := env.mustAddDoc(t, "notes.txt", &parent, 100)

	if err := env.svc.Delete(ctx, testTenant(), parent); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The deleted folder is no longer readable
	if _, err := env.folderRepo.GetByID(ctx, parent, testSchoolID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected deleted folder to be unreadable, got %v", err)
	}

	// Its child folder rose to the grandparent
	moved, err := env.folderRepo.GetByID(ctx, child, testSchoolID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != grandparent {
		t.Errorf("child parent = %v, want %q", moved.ParentID, grandparent)
	}

	// Its document rose to the grandparent too
	docs, err := env.docRepo.ListByFolder(ctx, &grandparent, testSchoolID)
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != docID {
		t.Errorf("expected document %q under grandparent, got %v", docID, docs)
	}
}

func TestDeleteRootFolderMovesContentsToRoot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	parent := env.mustCreate(t, "Parent", nil)
	child := env.mustCreate(t, "Child", &parent)

	if err := env.svc.Delete(ctx, testTenant(), parent); err != nil {
		t.Fatalf("delete: %v", err)
	}

	moved, err := env.folderRepo.GetByID(ctx, child, testSchoolID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if moved.ParentID != nil {
		t.Errorf("expected child at root, got parent %q", *moved.ParentID)
	}
}

func TestDeleteMissingFolder(t *testing.T) {
	env := newTestEnv()
	err := env.svc.Delete(context.Background(), testTenant(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCopyFolderDeep(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	source := env.mustCreate(t, "Experiments", nil)
	nested := env.mustCreate(t, "Results", &source)
	env.mustAddDoc(t, "protocol.pdf", &source, 2048)
	env.mustAddDoc(t, "data.csv", &nested, 512)
	target := env.mustCreate(t, "Archive", nil)

	copied, err := env.svc.Copy(ctx, testTenant(), source, &target)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}

	if copied.Name != "Experiments (Copy)" {
		t.Errorf("copy name = %q, want %q", copied.Name, "Experiments (Copy)")
	}
	if copied.ParentID == nil || *copied.ParentID != target {
		t.Errorf("copy parent = %v, want %q", copied.ParentID, target)
	}

	// The nested folder keeps its original name
	children, err := env.folderRepo.ListChildren(ctx, &copied.ID, testSchoolID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 1 || children[0].Name != "Results" {
		t.Fatalf("expected one nested copy named Results, got %v", children)
	}

	// Documents are duplicated at both levels and keep their sizes
	topDocs, _ := env.docRepo.ListByFolder(ctx, &copied.ID, testSchoolID)
	if len(topDocs) != 1 || topDocs[0].Name != "protocol.pdf" || topDocs[0].SizeBytes != 2048 {
		t.Errorf("unexpected top-level copied docs: %v", topDocs)
	}
	nestedDocs, _ := env.docRepo.ListByFolder(ctx, &children[0].ID, testSchoolID)
	if len(nestedDocs) != 1 || nestedDocs[0].SizeBytes != 512 {
		t.Errorf("unexpected nested copied docs: %v", nestedDocs)
	}

	// The copy shares the file reference instead of duplicating the file
	sourceDocs, _ := env.docRepo.ListByFolder(ctx, &source, testSchoolID)
	if topDocs[0].URL != sourceDocs[0].URL || topDocs[0].PublicID != sourceDocs[0].PublicID {
		t.Errorf("copied doc should share the original file reference")
	}
	if topDocs[0].ID == sourceDocs[0].ID {
		t.Errorf("copied doc should be a distinct row")
	}
}

func TestCopyFolderToRoot(t *testing.T) {
	env := newTestEnv()
	parent := env.mustCreate(t, "Parent", nil)
	source := env.mustCreate(t, "Source", &parent)

	copied, err := env.svc.Copy(context.Background(), testTenant(), source, nil)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.ParentID != nil {
		t.Errorf("expected copy at root, got parent %q", *copied.ParentID)
	}
}

func TestCopyFolderGuards(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	source := env.mustCreate(t, "Source", nil)
	inside := env.mustCreate(t, "Inside", &source)
	deep := env.mustCreate(t, "Deep", &inside)

	t.Run("into itself", func(t *testing.T) {
		_, err := env.svc.Copy(ctx, testTenant(), source, &source)
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("into own subtree", func(t *testing.T) {
		_, err := env.svc.Copy(ctx, testTenant(), source, &deep)
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := env.svc.Copy(ctx, testTenant(), "missing", nil)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := env.svc.Copy(ctx, testTenant(), source, strPtr("missing"))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMoveDocuments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	folder := env.mustCreate(t, "Target", nil)
	d1 := env.mustAddDoc(t, "a.txt", nil, 10)
	d2 := env.mustAddDoc(t, "b.txt", nil, 20)

	t.Run("moves matched documents and skips unknown ids", func(t *testing.T) {
		moved, err := env.svc.MoveDocuments(ctx, testTenant(), &folder, []string{d1, d2, "missing"})
		if err != nil {
			t.Fatalf("move: %v", err)
		}
		if moved != 2 {
			t.Errorf("moved = %d, want 2", moved)
		}
	})

	t.Run("root sentinel moves to root", func(t *testing.T) {
		moved, err := env.svc.MoveDocuments(ctx, testTenant(), strPtr("root"), []string{d1})
		if err != nil {
			t.Fatalf("move: %v", err)
		}
		if moved != 1 {
			t.Errorf("moved = %d, want 1", moved)
		}
		rootDocs, _ := env.docRepo.ListByFolder(ctx, nil, testSchoolID)
		if len(rootDocs) != 1 || rootDocs[0].ID != d1 {
			t.Errorf("expected %q at root, got %v", d1, rootDocs)
		}
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		moved, err := env.svc.MoveDocuments(ctx, testTenant(), &folder, nil)
		if err != nil {
			t.Fatalf("move: %v", err)
		}
		if moved != 0 {
			t.Errorf("moved = %d, want 0", moved)
		}
	})

	t.Run("missing target rejected", func(t *testing.T) {
		_, err := env.svc.MoveDocuments(ctx, testTenant(), strPtr("missing"), []string{d1})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBulkMove(t *testing.T) {
	t.Run("moves valid folders and skips bad ones", func(t *testing.T) {
		env := newTestEnv()
		ctx := context.Background()

		target := env.mustCreate(t, "Target", nil)
		ok1 := env.mustCreate(t, "OK1", nil)
		ok2 := env.mustCreate(t, "OK2", nil)
		// Moving an ancestor under its own descendant must be skipped
		ancestor := env.mustCreate(t, "Ancestor", nil)
		descendant := env.mustCreate(t, "Descendant", &ancestor)
		deepTarget := env.mustCreate(t, "DeepTarget", &descendant)

		result, err := env.svc.BulkMove(ctx, testTenant(), &libSvc.BulkMoveRequest{
			FolderIDs:      []string{ok1, "missing", ok2},
			TargetFolderID: &target,
		})
		if err != nil {
			t.Fatalf("bulk move: %v", err)
		}
		if result.Moved != 2 {
			t.Errorf("moved = %d, want 2", result.Moved)
		}
		if len(result.SkippedIDs) != 1 || result.SkippedIDs[0] != "missing" {
			t.Errorf("skipped = %v, want [missing]", result.SkippedIDs)
		}

		cycleResult, err := env.svc.BulkMove(ctx, testTenant(), &libSvc.BulkMoveRequest{
			FolderIDs:      []string{ancestor},
			TargetFolderID: &deepTarget,
		})
		if err != nil {
			t.Fatalf("bulk move: %v", err)
		}
		if cycleResult.Moved != 0 || len(cycleResult.SkippedIDs) != 1 {
			t.Errorf("expected cycle-creating move to be skipped, got %+v", cycleResult)
		}
	})

	t.Run("moves to root", func(t *testing.T) {
		env := newTestEnv()
		parent := env.mustCreate(t, "Parent", nil)
		child := env.mustCreate(t, "Child", &parent)

		result, err := env.svc.BulkMove(context.Background(), testTenant(), &libSvc.BulkMoveRequest{
			FolderIDs:      []string{child},
			TargetFolderID: nil,
		})
		if err != nil {
			t.Fatalf("bulk move: %v", err)
		}
		if result.Moved != 1 {
			t.Errorf("moved = %d, want 1", result.Moved)
		}

		moved, _ := env.folderRepo.GetByID(context.Background(), child, testSchoolID)
		if moved.ParentID != nil {
			t.Errorf("expected child at root, got parent %q", *moved.ParentID)
		}
	})

	t.Run("missing target rejected", func(t *testing.T) {
		env := newTestEnv()
		id := env.mustCreate(t, "A", nil)

		_, err := env.svc.BulkMove(context.Background(), testTenant(), &libSvc.BulkMoveRequest{
			FolderIDs:      []string{id},
			TargetFolderID: strPtr("missing"),
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("batch size limit", func(t *testing.T) {
		env := newTestEnv()
		ids := make([]string, 101)
		for i := range ids {
			ids[i] = fmt.Sprintf("folder-%d", i)
		}

		_, err := env.svc.BulkMove(context.Background(), testTenant(), &libSvc.BulkMoveRequest{
			FolderIDs: ids,
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestListFolders(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	labs := env.mustCreate(t, "Labs", nil)
	env.mustCreate(t, "Chemistry", &labs)
	env.mustCreate(t, "Physics", &labs)
	env.mustAddDoc(t, "handbook.pdf", &labs, 2097152)

	t.Run("root level listing with annotations", func(t *testing.T) {
		summaries, err := env.svc.List(ctx, testTenant(), libSvc.ListOptions{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("expected 1 root folder, got %d", len(summaries))
		}
		s := summaries[0]
		if s.FolderCount != 2 {
			t.Errorf("folder_count = %d, want 2", s.FolderCount)
		}
		if s.DocumentCount != 1 {
			t.Errorf("document_count = %d, want 1", s.DocumentCount)
		}
		if s.TotalSizeBytes != 2097152 {
			t.Errorf("total_size_bytes = %d, want 2097152", s.TotalSizeBytes)
		}
		if s.TotalSizeFormatted != "2.0 MB" {
			t.Errorf("total_size_formatted = %q, want %q", s.TotalSizeFormatted, "2.0 MB")
		}
	})

	t.Run("search ignores hierarchy", func(t *testing.T) {
		summaries, err := env.svc.List(ctx, testTenant(), libSvc.ListOptions{Search: "chem"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(summaries) != 1 || summaries[0].Name != "Chemistry" {
			t.Fatalf("expected [Chemistry], got %v", summaries)
		}
	})

	t.Run("child level listing", func(t *testing.T) {
		summaries, err := env.svc.List(ctx, testTenant(), libSvc.ListOptions{ParentID: &labs})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("expected 2 children, got %d", len(summaries))
		}
	})
}

func TestGetFolderDetail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.mustCreate(t, "A", nil)
	b := env.mustCreate(t, "B", &a)
	c := env.mustCreate(t, "C", &b)
	env.mustAddDoc(t, "x.txt", &c, 42)

	detail, err := env.svc.Get(ctx, testTenant(), c)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	wantCrumbs := []string{"A", "B", "C"}
	if len(detail.Breadcrumb) != len(wantCrumbs) {
		t.Fatalf("breadcrumb length = %d, want %d", len(detail.Breadcrumb), len(wantCrumbs))
	}
	for i, want := range wantCrumbs {
		if detail.Breadcrumb[i].Name != want {
			t.Errorf("breadcrumb[%d] = %q, want %q", i, detail.Breadcrumb[i].Name, want)
		}
	}
	if len(detail.Documents) != 1 {
		t.Errorf("expected 1 document, got %d", len(detail.Documents))
	}
	if len(detail.Folders) != 0 {
		t.Errorf("expected no child folders, got %d", len(detail.Folders))
	}
}

func TestGetMissingFolder(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Get(context.Background(), testTenant(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
