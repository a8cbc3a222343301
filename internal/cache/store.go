// Package cache holds the in-process snapshot of all entity collections.
// It is a cache over the database, not a second source of truth: every
// mutation here mirrors a write that already succeeded in storage.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/thenoetrevino/tado/internal/models"
)

// TodoStore is the authoritative in-process snapshot. All mutations
// after the initial load must go through the Add/Update/Remove mutators;
// the Set* full loads are reserved for startup and bulk refresh.
// Reads return defensive copies of the collection slices (the records
// themselves are shared snapshots and must not be mutated by readers).
type TodoStore struct {
	mu sync.RWMutex

	items    map[string]*models.Item
	projects map[string]*models.Project
	sections map[string]*models.Section
	labels   map[string]*models.Label

	// Secondary indexes kept in lockstep with items
	itemsByProject map[string]map[string]struct{}
	itemsBySection map[string]map[string]struct{}

	// Active-project view state; see ApplyProjectItems for the race rule
	activeProject *models.Project
	activeItems   []*models.Item

	// now is injectable so date-dependent views are testable
	now func() time.Time
}

// NewTodoStore creates an empty store
func NewTodoStore() *TodoStore {
	return &TodoStore{
		items:          make(map[string]*models.Item),
		projects:       make(map[string]*models.Project),
		sections:       make(map[string]*models.Section),
		labels:         make(map[string]*models.Label),
		itemsByProject: make(map[string]map[string]struct{}),
		itemsBySection: make(map[string]map[string]struct{}),
		now:            time.Now,
	}
}

// SetClock overrides the store's notion of now. Test hook.
func (s *TodoStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ============================================================================
// Item mutators
// ============================================================================

// SetItems replaces the whole item collection (startup / bulk refresh)
func (s *TodoStore) SetItems(items []*models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*models.Item, len(items))
	s.itemsByProject = make(map[string]map[string]struct{})
	s.itemsBySection = make(map[string]map[string]struct{})
	for _, item := range items {
		s.items[item.ID] = item
		s.indexItem(item)
	}
}

// AddItem inserts one item, leaving every other entry untouched
func (s *TodoStore) AddItem(item *models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[item.ID]; ok {
		s.unindexItem(old)
	}
	s.items[item.ID] = item
	s.indexItem(item)
}

// UpdateItem replaces the item with the same id, leaving every other
// entry untouched. Unknown ids are inserted, which keeps the cache
// convergent when an update event races ahead of the initial load.
func (s *TodoStore) UpdateItem(item *models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[item.ID]; ok {
		s.unindexItem(old)
	}
	s.items[item.ID] = item
	s.indexItem(item)

	for i, active := range s.activeItems {
		if active.ID == item.ID {
			// An item moved out of the active project leaves its view
			if s.activeProject != nil && item.ProjectID != nil && *item.ProjectID == s.activeProject.ID {
				s.activeItems[i] = item
			} else {
				s.activeItems = append(s.activeItems[:i], s.activeItems[i+1:]...)
			}
			break
		}
	}
}

// RemoveItem deletes the item with the given id, leaving every other
// entry untouched
func (s *TodoStore) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[id]; ok {
		s.unindexItem(old)
		delete(s.items, id)
	}

	for i, active := range s.activeItems {
		if active.ID == id {
			s.activeItems = append(s.activeItems[:i], s.activeItems[i+1:]...)
			break
		}
	}
}

// indexItem adds an item to the secondary indexes. Caller holds mu.
func (s *TodoStore) indexItem(item *models.Item) {
	if item.ProjectID != nil {
		set := s.itemsByProject[*item.ProjectID]
		if set == nil {
			set = make(map[string]struct{})
			s.itemsByProject[*item.ProjectID] = set
		}
		set[item.ID] = struct{}{}
	}
	if item.SectionID != nil {
		set := s.itemsBySection[*item.SectionID]
		if set == nil {
			set = make(map[string]struct{})
			s.itemsBySection[*item.SectionID] = set
		}
		set[item.ID] = struct{}{}
	}
}

// unindexItem removes an item from the secondary indexes. Caller holds mu.
func (s *TodoStore) unindexItem(item *models.Item) {
	if item.ProjectID != nil {
		delete(s.itemsByProject[*item.ProjectID], item.ID)
	}
	if item.SectionID != nil {
		delete(s.itemsBySection[*item.SectionID], item.ID)
	}
}

// ============================================================================
// Project / section / label mutators
// ============================================================================

// SetProjects replaces the whole project collection
func (s *TodoStore) SetProjects(projects []*models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]*models.Project, len(projects))
	for _, project := range projects {
		s.projects[project.ID] = project
	}
}

// AddProject inserts one project
func (s *TodoStore) AddProject(project *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
}

// UpdateProject replaces the project with the same id. The active
// project pointer follows the update so project-detail views see the
// new record immediately.
func (s *TodoStore) UpdateProject(project *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	if s.activeProject != nil && s.activeProject.ID == project.ID {
		s.activeProject = project
	}
}

// RemoveProject deletes the project with the given id. An active
// project that disappears clears the active view.
func (s *TodoStore) RemoveProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	delete(s.itemsByProject, id)
	if s.activeProject != nil && s.activeProject.ID == id {
		s.activeProject = nil
		s.activeItems = nil
	}
}

// SetSections replaces the whole section collection
func (s *TodoStore) SetSections(sections []*models.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = make(map[string]*models.Section, len(sections))
	for _, section := range sections {
		s.sections[section.ID] = section
	}
}

// AddSection inserts one section
func (s *TodoStore) AddSection(section *models.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections[section.ID] = section
}

// UpdateSection replaces the section with the same id. Views resolve
// section names through SectionName, so a rename is visible everywhere
// without touching cached items.
func (s *TodoStore) UpdateSection(section *models.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections[section.ID] = section
}

// RemoveSection deletes the section with the given id
func (s *TodoStore) RemoveSection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sections, id)
	delete(s.itemsBySection, id)
}

// SetLabels replaces the whole label collection
func (s *TodoStore) SetLabels(labels []*models.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = make(map[string]*models.Label, len(labels))
	for _, label := range labels {
		s.labels[label.ID] = label
	}
}

// AddLabel inserts one label
func (s *TodoStore) AddLabel(label *models.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[label.ID] = label
}

// UpdateLabel replaces the label with the same id
func (s *TodoStore) UpdateLabel(label *models.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[label.ID] = label
}

// RemoveLabel deletes the label with the given id
func (s *TodoStore) RemoveLabel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.labels, id)
}

// ============================================================================
// Read accessors
// ============================================================================

// sortItems orders items for stable display: child_order, then added_at,
// then id as the final tiebreaker
func sortItems(items []*models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ChildOrder != items[j].ChildOrder {
			return items[i].ChildOrder < items[j].ChildOrder
		}
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// Items returns all cached items
func (s *TodoStore) Items() []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sortItems(items)
	return items
}

// Item returns a single cached item by id
func (s *TodoStore) Item(id string) (*models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Projects returns all cached projects
func (s *TodoStore) Projects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]*models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, project)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].ChildOrder != projects[j].ChildOrder {
			return projects[i].ChildOrder < projects[j].ChildOrder
		}
		return projects[i].Name < projects[j].Name
	})
	return projects
}

// Sections returns all cached sections
func (s *TodoStore) Sections() []*models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sections := make([]*models.Section, 0, len(s.sections))
	for _, section := range s.sections {
		sections = append(sections, section)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].SectionOrder != sections[j].SectionOrder {
			return sections[i].SectionOrder < sections[j].SectionOrder
		}
		return sections[i].Name < sections[j].Name
	})
	return sections
}

// SectionName resolves a section id to its current name. Views embed
// ids, not names, so renames propagate from here.
func (s *TodoStore) SectionName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if section, ok := s.sections[id]; ok {
		return section.Name
	}
	return ""
}

// Labels returns all cached labels
func (s *TodoStore) Labels() []*models.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	labels := make([]*models.Label, 0, len(s.labels))
	for _, label := range s.labels {
		labels = append(labels, label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if labels[i].ItemOrder != labels[j].ItemOrder {
			return labels[i].ItemOrder < labels[j].ItemOrder
		}
		return labels[i].Name < labels[j].Name
	})
	return labels
}

// ItemsByProject returns the cached items of one project via the
// secondary index
func (s *TodoStore) ItemsByProject(projectID string) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.Item, 0, len(s.itemsByProject[projectID]))
	for id := range s.itemsByProject[projectID] {
		items = append(items, s.items[id])
	}
	sortItems(items)
	return items
}

// ItemsBySection returns the cached items of one section via the
// secondary index
func (s *TodoStore) ItemsBySection(sectionID string) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.Item, 0, len(s.itemsBySection[sectionID]))
	for id := range s.itemsBySection[sectionID] {
		items = append(items, s.items[id])
	}
	sortItems(items)
	return items
}

// ============================================================================
// Active project view
// ============================================================================

// SetActiveProject scopes the project-detail view. Passing nil clears
// it. The previous item list is dropped immediately so a stale view is
// never shown against the new project.
func (s *TodoStore) SetActiveProject(project *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProject = project
	s.activeItems = nil
}

// ActiveProject returns the current active project, or nil
func (s *TodoStore) ActiveProject() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProject
}

// ApplyProjectItems installs the result of an async project-items load.
// The result is applied only when projectID still matches the active
// project: a completion from a superseded request is discarded, not
// applied. Last-requested wins, not last-completed. Reports whether the
// result was applied.
func (s *TodoStore) ApplyProjectItems(projectID string, items []*models.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeProject == nil || s.activeProject.ID != projectID {
		return false
	}
	s.activeItems = items
	return true
}

// ActiveProjectItems returns the loaded items of the active project
func (s *TodoStore) ActiveProjectItems() []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.Item, len(s.activeItems))
	copy(items, s.activeItems)
	return items
}
