package database

import (
	"context"
	"testing"
	"time"

	"github.com/thenoetrevino/tado/internal/models"
	"github.com/thenoetrevino/tado/internal/testutil"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(testutil.SetupTestDB(t))
}

func TestInsertItemAssignsID(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{Content: "fresh"})
	if err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected a generated ID")
	}
	if created.AddedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Expected timestamps filled in")
	}

	// A caller-provided id is kept
	kept, err := repo.InsertItem(ctx, &models.Item{ID: "custom-id", Content: "kept"})
	if err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}
	if kept.ID != "custom-id" {
		t.Errorf("Expected caller id preserved, got %s", kept.ID)
	}
}

func TestEmptyStringForeignKeysStoredAsNull(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	empty := ""
	created, err := repo.InsertItem(ctx, &models.Item{
		Content:   "normalized",
		ProjectID: &empty,
		SectionID: &empty,
	})
	if err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	got, err := repo.GetItemByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if got.ProjectID != nil || got.SectionID != nil {
		t.Error("Empty-string foreign keys must come back as nil")
	}
	if !got.IsInbox() {
		t.Error("Item with empty project id must be an inbox item")
	}

	inbox, err := repo.GetInboxItems(ctx)
	if err != nil {
		t.Fatalf("GetInboxItems failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Errorf("Expected 1 inbox item, got %d", len(inbox))
	}
}

func TestGetItemByIDNotFound(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)

	_, err := repo.GetItemByID(context.Background(), "missing")
	if !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestDueRoundTrip(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{
		Content: "dated",
		Due: &models.Due{
			Date:        "2026-09-01T10:00:00Z",
			Timezone:    "UTC",
			Recurrence:  models.RecurrenceWeek,
			IsRecurring: true,
		},
	})
	if err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	got, err := repo.GetItemByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if got.Due == nil {
		t.Fatal("Expected due payload back")
	}
	if got.Due.Date != "2026-09-01T10:00:00Z" || !got.Due.IsRecurring || got.Due.Recurrence != models.RecurrenceWeek {
		t.Errorf("Due payload mangled: %+v", got.Due)
	}
}

func TestUpdateItemCheckedKeepsFieldsCoupled(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{Content: "couple"})
	if err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	done := time.Now().UTC()
	if err := repo.UpdateItemChecked(ctx, created.ID, true, &done); err != nil {
		t.Fatalf("UpdateItemChecked failed: %v", err)
	}

	got, _ := repo.GetItemByID(ctx, created.ID)
	if !got.Checked || got.CompletedAt == nil {
		t.Error("Checked and completed_at must change together")
	}

	if err := repo.UpdateItemChecked(ctx, created.ID, false, nil); err != nil {
		t.Fatalf("UpdateItemChecked failed: %v", err)
	}
	got, _ = repo.GetItemByID(ctx, created.ID)
	if got.Checked || got.CompletedAt != nil {
		t.Error("Unchecking must clear completed_at")
	}
}

func TestUpdateMissingItemReturnsNotFound(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.UpdateItemPin(ctx, "ghost", true); !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError from pin update, got %v", err)
	}
	if err := repo.DeleteItem(ctx, "ghost"); !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError from delete, got %v", err)
	}
}

func TestMoveItemBetweenScopes(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	projectID := testutil.CreateTestProject(t, db, "Work")
	sectionID := testutil.CreateTestSection(t, db, projectID, "Backlog")
	itemID := testutil.CreateTestItem(t, db, "", "wanderer")

	if err := repo.MoveItem(ctx, itemID, &projectID, &sectionID); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	got, _ := repo.GetItemByID(ctx, itemID)
	if got.ProjectID == nil || *got.ProjectID != projectID {
		t.Error("Expected item moved into the project")
	}
	if got.SectionID == nil || *got.SectionID != sectionID {
		t.Error("Expected item moved into the section")
	}

	// Back to the inbox
	if err := repo.MoveItem(ctx, itemID, nil, nil); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	got, _ = repo.GetItemByID(ctx, itemID)
	if !got.IsInbox() || got.SectionID != nil {
		t.Error("Expected item back in the inbox with no section")
	}
}

func TestGetAllItemsHydratesLabels(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tagged := testutil.CreateTestItem(t, db, "", "tagged")
	plain := testutil.CreateTestItem(t, db, "", "plain")
	urgent := testutil.CreateTestLabel(t, db, "urgent", "#EF4444")
	home := testutil.CreateTestLabel(t, db, "home", "#22C55E")
	if err := repo.AddLabelToItem(ctx, tagged, urgent); err != nil {
		t.Fatalf("AddLabelToItem failed: %v", err)
	}
	if err := repo.AddLabelToItem(ctx, tagged, home); err != nil {
		t.Fatalf("AddLabelToItem failed: %v", err)
	}

	items, err := repo.GetAllItems(ctx)
	if err != nil {
		t.Fatalf("GetAllItems failed: %v", err)
	}
	for _, item := range items {
		switch item.ID {
		case tagged:
			if len(item.Labels) != 2 {
				t.Errorf("Expected 2 labels on tagged item, got %d", len(item.Labels))
			}
		case plain:
			if len(item.Labels) != 0 {
				t.Errorf("Expected no labels on plain item, got %d", len(item.Labels))
			}
		}
	}
}

func TestGetPinnedItemsVariants(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	donePinned, _ := repo.InsertItem(ctx, &models.Item{Content: "done pinned", Pinned: true, Checked: true})
	openPinned, _ := repo.InsertItem(ctx, &models.Item{Content: "open pinned", Pinned: true})
	_, _ = repo.InsertItem(ctx, &models.Item{Content: "unpinned"})

	all, err := repo.GetPinnedItems(ctx, false)
	if err != nil {
		t.Fatalf("GetPinnedItems failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 pinned items, got %d", len(all))
	}

	open, err := repo.GetPinnedItems(ctx, true)
	if err != nil {
		t.Fatalf("GetPinnedItems failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != openPinned.ID {
		t.Errorf("Expected only the open pinned item, got %d", len(open))
	}
	_ = donePinned
}

func TestDeleteItemCascadesOwnedRows(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	itemID := testutil.CreateTestItem(t, db, "", "owner")
	childID := testutil.CreateTestSubItem(t, db, itemID, "child")
	labelID := testutil.CreateTestLabel(t, db, "linked", "")
	if err := repo.AddLabelToItem(ctx, itemID, labelID); err != nil {
		t.Fatalf("AddLabelToItem failed: %v", err)
	}
	reminder, err := repo.InsertReminder(ctx, &models.Reminder{
		ItemID: itemID,
		Type:   models.ReminderAbsolute,
		Due:    &models.Due{Date: "2026-09-01"},
	})
	if err != nil {
		t.Fatalf("InsertReminder failed: %v", err)
	}

	if err := repo.DeleteItem(ctx, itemID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	if _, err := repo.GetItemByID(ctx, childID); !models.IsNotFound(err) {
		t.Errorf("Expected direct child cascaded away, got %v", err)
	}
	if _, err := repo.GetReminderByID(ctx, reminder.ID); !models.IsNotFound(err) {
		t.Errorf("Expected reminder cascaded away, got %v", err)
	}
	// The label itself survives; only the link is gone
	if _, err := repo.GetLabelByID(ctx, labelID); err != nil {
		t.Errorf("Label must survive item deletion: %v", err)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	projectID := testutil.CreateTestProject(t, db, "Doomed")
	sectionID := testutil.CreateTestSection(t, db, projectID, "Backlog")
	itemID := testutil.CreateTestItem(t, db, projectID, "homed")
	inboxID := testutil.CreateTestItem(t, db, "", "inboxed")

	if err := repo.DeleteProject(ctx, projectID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := repo.GetSectionByID(ctx, sectionID); !models.IsNotFound(err) {
		t.Errorf("Expected section gone, got %v", err)
	}
	if _, err := repo.GetItemByID(ctx, itemID); !models.IsNotFound(err) {
		t.Errorf("Expected project item gone, got %v", err)
	}
	if _, err := repo.GetItemByID(ctx, inboxID); err != nil {
		t.Errorf("Inbox item must survive: %v", err)
	}
}

func TestGetItemsWithDueSkipsCompleted(t *testing.T) {
	t.Parallel()
	repo := setupRepo(t)
	ctx := context.Background()

	open, _ := repo.InsertItem(ctx, &models.Item{
		Content: "open dated",
		Due:     &models.Due{Date: "2026-09-01"},
	})
	now := time.Now().UTC()
	_, _ = repo.InsertItem(ctx, &models.Item{
		Content:     "done dated",
		Due:         &models.Due{Date: "2026-09-01"},
		Checked:     true,
		CompletedAt: &now,
	})
	_, _ = repo.InsertItem(ctx, &models.Item{Content: "undated"})

	items, err := repo.GetItemsWithDue(ctx)
	if err != nil {
		t.Fatalf("GetItemsWithDue failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != open.ID {
		t.Errorf("Expected only the open dated item, got %d", len(items))
	}
}
