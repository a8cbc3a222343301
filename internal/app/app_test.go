package app

import (
	"context"
	"testing"
	"time"

	"github.com/thenoetrevino/tado/internal/cache"
	"github.com/thenoetrevino/tado/internal/database"
	itemservice "github.com/thenoetrevino/tado/internal/services/item"
	projectservice "github.com/thenoetrevino/tado/internal/services/project"
	"github.com/thenoetrevino/tado/internal/testutil"
)

func setupApp(t *testing.T) *App {
	t.Helper()
	db := testutil.SetupTestDB(t)
	a := New(database.NewRepository(db), WithDrainTimeout(time.Second))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew(t *testing.T) {
	a := setupApp(t)

	if a.ItemService == nil {
		t.Error("Expected ItemService to be initialized")
	}
	if a.ProjectService == nil {
		t.Error("Expected ProjectService to be initialized")
	}
	if a.SectionService == nil {
		t.Error("Expected SectionService to be initialized")
	}
	if a.LabelService == nil {
		t.Error("Expected LabelService to be initialized")
	}
	if a.Bus == nil || a.Store == nil || a.Pool == nil {
		t.Error("Expected bus, store and pool to be initialized")
	}
}

func TestWarmCacheLoadsAllCollections(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	project, err := a.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := a.ItemService.CreateItem(ctx, itemservice.CreateItemRequest{
		Content:   "homed",
		ProjectID: project.ID,
	}); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if _, err := a.ItemService.CreateItem(ctx, itemservice.CreateItemRequest{Content: "inboxed"}); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := a.WarmCache(ctx); err != nil {
		t.Fatalf("WarmCache failed: %v", err)
	}

	if got := len(a.Store.Items()); got != 2 {
		t.Errorf("Expected 2 cached items, got %d", got)
	}
	if got := len(a.Store.Projects()); got != 1 {
		t.Errorf("Expected 1 cached project, got %d", got)
	}
	if got := a.Store.CountFor(cache.ViewInbox); got != 1 {
		t.Errorf("Expected 1 inbox item, got %d", got)
	}
}

func TestServiceEventsReachBusSubscribers(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	sub := a.Bus.Subscribe()
	defer sub.Close()

	created, err := a.ItemService.CreateItem(ctx, itemservice.CreateItemRequest{Content: "announced"})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	select {
	case event := <-sub.C:
		if event.EntityID != created.ID {
			t.Errorf("Expected event for %s, got %s", created.ID, event.EntityID)
		}
	case <-time.After(time.Second):
		t.Fatal("No event received for service write")
	}
}

func TestPoolRunsDatabaseWork(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	err := a.Pool.SubmitWait(func() error {
		_, err := a.ItemService.CreateItem(ctx, itemservice.CreateItemRequest{Content: "from worker"})
		return err
	})
	if err != nil {
		t.Fatalf("Pool task failed: %v", err)
	}

	items, err := a.ItemService.GetAllItems(ctx)
	if err != nil {
		t.Fatalf("GetAllItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item written via the pool, got %d", len(items))
	}
}

func TestClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	a := New(database.NewRepository(db), WithDrainTimeout(time.Second))

	if err := a.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}
}
