// Package app wires the repository, services, event bus, cache and
// worker pool into one application container
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/tado/internal/cache"
	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	itemservice "github.com/thenoetrevino/tado/internal/services/item"
	labelservice "github.com/thenoetrevino/tado/internal/services/label"
	projectservice "github.com/thenoetrevino/tado/internal/services/project"
	sectionservice "github.com/thenoetrevino/tado/internal/services/section"
	"github.com/thenoetrevino/tado/internal/worker"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	Bus *events.Bus

	// In-process snapshot of all collections
	Store *cache.TodoStore

	// Background pool for database work
	Pool *worker.Pool

	// Service layer (business logic)
	ItemService    itemservice.Service
	ProjectService projectservice.Service
	SectionService sectionservice.Service
	LabelService   labelservice.Service

	drainTimeout time.Duration
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, opts ...Option) *App {
	cfg := appConfig{
		poolSize:     worker.DefaultSize,
		drainTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	bus := events.NewBus()
	return &App{
		repo:           repo,
		Bus:            bus,
		Store:          cache.NewTodoStore(),
		Pool:           worker.NewPool(cfg.poolSize),
		drainTimeout:   cfg.drainTimeout,
		ItemService:    itemservice.NewService(repo, bus),
		ProjectService: projectservice.NewService(repo, bus),
		SectionService: sectionservice.NewService(repo, bus),
		LabelService:   labelservice.NewService(repo, bus),
	}
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() database.DataStore {
	return a.repo
}

// WarmCache loads every collection from storage into the in-process
// store. Called once at startup; afterwards the cache is maintained
// through its incremental mutators.
func (a *App) WarmCache(ctx context.Context) error {
	items, err := a.repo.GetAllItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	projects, err := a.repo.GetAllProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	sections, err := a.repo.GetAllSections(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sections: %w", err)
	}
	labels, err := a.repo.GetAllLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to load labels: %w", err)
	}

	a.Store.SetItems(items)
	a.Store.SetProjects(projects)
	a.Store.SetSections(sections)
	a.Store.SetLabels(labels)
	return nil
}

// Close drains the worker pool and detaches all event subscribers
func (a *App) Close() error {
	a.Pool.Shutdown(a.drainTimeout)
	a.Bus.Close()
	return nil
}
