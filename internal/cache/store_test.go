package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/thenoetrevino/tado/internal/models"
)

func strPtr(s string) *string { return &s }

func testItem(id string, mutate ...func(*models.Item)) *models.Item {
	item := &models.Item{
		ID:         id,
		Content:    "item " + id,
		AddedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ChildOrder: models.DefaultChildOrder,
	}
	for _, m := range mutate {
		m(item)
	}
	return item
}

func dueOn(date string) *models.Due {
	return &models.Due{Date: date}
}

func TestIncrementalMutatorsMatchFullReload(t *testing.T) {
	t.Parallel()

	// Drive two stores through the same logical history: one through
	// incremental mutators, one through a final full load. They must
	// converge on identical contents.
	incremental := NewTodoStore()
	incremental.SetItems([]*models.Item{testItem("a"), testItem("b"), testItem("c")})

	incremental.AddItem(testItem("d"))
	updated := testItem("b", func(i *models.Item) { i.Content = "renamed" })
	incremental.UpdateItem(updated)
	incremental.RemoveItem("a")

	full := NewTodoStore()
	full.SetItems([]*models.Item{updated, testItem("c"), testItem("d")})

	got := incremental.Items()
	want := full.Items()
	if len(got) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Content != want[i].Content {
			t.Errorf("Item %d diverged: got %s/%q want %s/%q",
				i, got[i].ID, got[i].Content, want[i].ID, want[i].Content)
		}
	}
}

func TestRemoveItemLeavesOthersUntouched(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetItems([]*models.Item{testItem("a"), testItem("b")})
	store.RemoveItem("a")
	store.RemoveItem("missing") // no-op, must not panic

	items := store.Items()
	if len(items) != 1 || items[0].ID != "b" {
		t.Errorf("Expected only item b to remain, got %d items", len(items))
	}
}

func TestSecondaryIndexesFollowMutations(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetItems([]*models.Item{
		testItem("a", func(i *models.Item) { i.ProjectID = strPtr("p1") }),
		testItem("b", func(i *models.Item) { i.ProjectID = strPtr("p1"); i.SectionID = strPtr("s1") }),
		testItem("c", func(i *models.Item) { i.ProjectID = strPtr("p2") }),
	})

	if got := len(store.ItemsByProject("p1")); got != 2 {
		t.Fatalf("Expected 2 items in p1, got %d", got)
	}

	// Moving an item between projects must update both index entries
	moved := testItem("a", func(i *models.Item) { i.ProjectID = strPtr("p2") })
	store.UpdateItem(moved)

	if got := len(store.ItemsByProject("p1")); got != 1 {
		t.Errorf("Expected 1 item left in p1 after move, got %d", got)
	}
	if got := len(store.ItemsByProject("p2")); got != 2 {
		t.Errorf("Expected 2 items in p2 after move, got %d", got)
	}

	store.RemoveItem("b")
	if got := len(store.ItemsBySection("s1")); got != 0 {
		t.Errorf("Expected empty section index after removal, got %d", got)
	}
}

func TestViewsRecomputeFromCanonicalState(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	now := time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	completedAt := now.Add(-time.Hour)
	store.SetItems([]*models.Item{
		testItem("inbox"),
		testItem("today", func(i *models.Item) { i.ProjectID = strPtr("p"); i.Due = dueOn("2026-08-23") }),
		testItem("overdue", func(i *models.Item) { i.Due = dueOn("2026-08-20") }),
		testItem("future", func(i *models.Item) { i.ProjectID = strPtr("p"); i.Due = dueOn("2026-09-01") }),
		testItem("pinned", func(i *models.Item) { i.Pinned = true; i.ProjectID = strPtr("p") }),
		testItem("done", func(i *models.Item) { i.Checked = true; i.CompletedAt = &completedAt }),
		testItem("tagged", func(i *models.Item) {
			i.ProjectID = strPtr("p")
			i.Labels = []*models.Label{{ID: "l1", Name: "urgent"}}
		}),
	})

	cases := []struct {
		view ViewKind
		want map[string]bool
	}{
		{ViewInbox, map[string]bool{"inbox": true, "overdue": true}},
		{ViewToday, map[string]bool{"today": true, "overdue": true}},
		{ViewScheduled, map[string]bool{"future": true}},
		{ViewPinned, map[string]bool{"pinned": true}},
		{ViewCompleted, map[string]bool{"done": true}},
		{ViewLabels, map[string]bool{"tagged": true}},
	}
	for _, tc := range cases {
		items := store.ItemsFor(tc.view)
		if len(items) != len(tc.want) {
			t.Errorf("View %s: expected %d items, got %d", tc.view, len(tc.want), len(items))
			continue
		}
		for _, item := range items {
			if !tc.want[item.ID] {
				t.Errorf("View %s: unexpected item %s", tc.view, item.ID)
			}
		}
		if got := store.CountFor(tc.view); got != len(tc.want) {
			t.Errorf("CountFor(%s) = %d, want %d", tc.view, got, len(tc.want))
		}
	}
}

func TestViewReflectsCompletionImmediately(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetItems([]*models.Item{testItem("a")})

	if len(store.ItemsFor(ViewCompleted)) != 0 {
		t.Fatal("Fresh item must not appear completed")
	}

	now := time.Now()
	store.UpdateItem(testItem("a", func(i *models.Item) {
		i.Checked = true
		i.CompletedAt = &now
	}))

	if len(store.ItemsFor(ViewCompleted)) != 1 {
		t.Error("Completed view must include the item after the update")
	}
	if len(store.ItemsFor(ViewInbox)) != 0 {
		t.Error("Inbox view must drop a completed item")
	}
}

func TestItemsSortedByChildOrder(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetItems([]*models.Item{
		testItem("z", func(i *models.Item) { i.ChildOrder = 3 }),
		testItem("a", func(i *models.Item) { i.ChildOrder = 1 }),
		testItem("m", func(i *models.Item) { i.ChildOrder = 2 }),
	})

	items := store.Items()
	for i, want := range []string{"a", "m", "z"} {
		if items[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, items[i].ID)
		}
	}
}

func TestSectionRenameVisibleThroughResolver(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetSections([]*models.Section{{ID: "s1", ProjectID: "p1", Name: "Backlog"}})
	store.SetItems([]*models.Item{
		testItem("a", func(i *models.Item) { i.ProjectID = strPtr("p1"); i.SectionID = strPtr("s1") }),
	})

	store.UpdateSection(&models.Section{ID: "s1", ProjectID: "p1", Name: "Icebox"})

	if got := store.SectionName("s1"); got != "Icebox" {
		t.Errorf("Expected renamed section, got %q", got)
	}
	if got := store.SectionName("missing"); got != "" {
		t.Errorf("Expected empty name for unknown section, got %q", got)
	}
}

func TestActiveProjectRaceGuard(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	projectA := &models.Project{ID: "a", Name: "Project A"}
	projectB := &models.Project{ID: "b", Name: "Project B"}

	// User selects A, then B before A's load finishes. A's slow result
	// must be discarded; B's result wins because B is still active.
	store.SetActiveProject(projectA)
	store.SetActiveProject(projectB)

	itemsB := []*models.Item{testItem("b1", func(i *models.Item) { i.ProjectID = strPtr("b") })}
	if !store.ApplyProjectItems("b", itemsB) {
		t.Fatal("Expected B's load to apply while B is active")
	}

	itemsA := []*models.Item{testItem("a1", func(i *models.Item) { i.ProjectID = strPtr("a") })}
	if store.ApplyProjectItems("a", itemsA) {
		t.Fatal("Expected A's stale load to be discarded")
	}

	active := store.ActiveProjectItems()
	if len(active) != 1 || active[0].ID != "b1" {
		t.Errorf("Expected B's items to remain, got %+v", active)
	}
}

func TestActiveItemsFollowItemMutations(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	project := &models.Project{ID: "p", Name: "P"}
	store.SetActiveProject(project)
	store.ApplyProjectItems("p", []*models.Item{
		testItem("x", func(i *models.Item) { i.ProjectID = strPtr("p") }),
		testItem("y", func(i *models.Item) { i.ProjectID = strPtr("p") }),
	})

	store.UpdateItem(testItem("x", func(i *models.Item) {
		i.ProjectID = strPtr("p")
		i.Content = "patched"
	}))
	store.RemoveItem("y")

	active := store.ActiveProjectItems()
	if len(active) != 1 {
		t.Fatalf("Expected 1 active item, got %d", len(active))
	}
	if active[0].Content != "patched" {
		t.Errorf("Expected active list to see the update, got %q", active[0].Content)
	}
}

func TestActiveViewDropsItemMovedToAnotherProject(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetActiveProject(&models.Project{ID: "p", Name: "P"})
	store.ApplyProjectItems("p", []*models.Item{
		testItem("stays", func(i *models.Item) { i.ProjectID = strPtr("p") }),
		testItem("moves", func(i *models.Item) { i.ProjectID = strPtr("p") }),
		testItem("inboxed", func(i *models.Item) { i.ProjectID = strPtr("p") }),
	})

	store.UpdateItem(testItem("moves", func(i *models.Item) { i.ProjectID = strPtr("q") }))
	store.UpdateItem(testItem("inboxed"))

	active := store.ActiveProjectItems()
	if len(active) != 1 || active[0].ID != "stays" {
		t.Fatalf("Expected only the unmoved item in the active view, got %d", len(active))
	}
}

func TestRemoveProjectClearsActiveView(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	store.SetProjects([]*models.Project{{ID: "p", Name: "P"}})
	store.SetActiveProject(&models.Project{ID: "p", Name: "P"})
	store.ApplyProjectItems("p", []*models.Item{testItem("x")})

	store.RemoveProject("p")

	if store.ActiveProject() != nil {
		t.Error("Expected active project cleared after removal")
	}
	if len(store.ActiveProjectItems()) != 0 {
		t.Error("Expected active items cleared after project removal")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	t.Parallel()

	store := NewTodoStore()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			store.AddItem(testItem(fmt.Sprintf("item-%d", i)))
			if i%3 == 0 {
				store.RemoveItem(fmt.Sprintf("item-%d", i))
			}
		}
	}()

	// Race detector coverage: reads interleaved with the writer
	for i := 0; i < 200; i++ {
		store.Items()
		store.ItemsFor(ViewInbox)
		store.CountFor(ViewPinned)
	}
	<-done
}
