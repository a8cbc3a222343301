package project

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/models"
	"github.com/thenoetrevino/tado/internal/testutil"
)

func setupService(t *testing.T) Service {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(database.NewRepository(db), nil)
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateProjectRequest
		want error
	}{
		{"empty name", CreateProjectRequest{Name: ""}, ErrEmptyName},
		{"name too long", CreateProjectRequest{Name: strings.Repeat("x", models.MaxNameLength+1)}, ErrNameTooLong},
		{"bad view style", CreateProjectRequest{Name: "ok", ViewStyle: "kanban"}, ErrInvalidViewStyle},
	}
	for _, tc := range cases {
		if _, err := svc.CreateProject(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected a generated ID")
	}
	if created.ViewStyle != models.ViewStyleList {
		t.Errorf("Expected list view by default, got %q", created.ViewStyle)
	}
}

func TestUpdateProjectPartialFields(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectRequest{
		Name:  "Work",
		Color: "#7D56F4",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	name := "Job"
	updated, err := svc.UpdateProject(ctx, UpdateProjectRequest{ID: created.ID, Name: &name})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Name != "Job" {
		t.Errorf("Expected renamed project, got %q", updated.Name)
	}
	if updated.Color != "#7D56F4" {
		t.Errorf("Untouched color changed: %q", updated.Color)
	}
}

func TestArchiveProject(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Old"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := svc.ArchiveProject(ctx, created.ID, true); err != nil {
		t.Fatalf("ArchiveProject failed: %v", err)
	}

	got, err := svc.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if !got.IsArchived {
		t.Error("Expected archived project")
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Doomed"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	sectionID := testutil.CreateTestSection(t, db, created.ID, "Backlog")
	itemID := testutil.CreateTestItem(t, db, created.ID, "homed item")
	inboxID := testutil.CreateTestItem(t, db, "", "inbox item")

	if err := svc.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := repo.GetSectionByID(ctx, sectionID); !models.IsNotFound(err) {
		t.Errorf("Expected section cascaded away, got %v", err)
	}
	if _, err := repo.GetItemByID(ctx, itemID); !models.IsNotFound(err) {
		t.Errorf("Expected item cascaded away, got %v", err)
	}
	if _, err := repo.GetItemByID(ctx, inboxID); err != nil {
		t.Errorf("Inbox item must survive project deletion: %v", err)
	}
}

func TestNestedProjects(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	parent, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Parent"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Child", ParentID: parent.ID}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	children, err := svc.GetSubProjects(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetSubProjects failed: %v", err)
	}
	if len(children) != 1 || children[0].Name != "Child" {
		t.Errorf("Expected one child project, got %d", len(children))
	}
}

func TestGetItemCount(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	svc := NewService(database.NewRepository(db), nil)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Counted"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	testutil.CreateTestItem(t, db, created.ID, "one")
	testutil.CreateTestItem(t, db, created.ID, "two")

	count, err := svc.GetItemCount(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItemCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 items, got %d", count)
	}
}
