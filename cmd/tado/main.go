// Command tado runs the task store daemon: it opens the database, warms
// the in-process cache, and serves until interrupted.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/tado/internal/app"
	"github.com/thenoetrevino/tado/internal/config"
	"github.com/thenoetrevino/tado/internal/database"
	"github.com/thenoetrevino/tado/internal/events"
	"github.com/thenoetrevino/tado/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tado: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	a := app.New(database.NewRepository(db),
		app.WithPoolSize(cfg.Worker.PoolSize),
		app.WithDrainTimeout(cfg.Worker.DrainTimeout),
	)
	defer func() { _ = a.Close() }()

	if err := a.WarmCache(ctx); err != nil {
		return fmt.Errorf("failed to warm cache: %w", err)
	}
	slog.Info("cache warmed",
		"items", len(a.Store.Items()),
		"projects", len(a.Store.Projects()))

	// Keep the cache converged with every write until shutdown
	sub := a.Bus.Subscribe()
	defer sub.Close()
	go applyEvents(ctx, a, sub)

	slog.Info("tado started", "pool_size", cfg.Worker.PoolSize)
	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	pool := database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		BusyTimeout:     cfg.Database.BusyTimeout,
	}
	if cfg.Database.Path != "" {
		return database.Open(ctx, cfg.Database.Path, pool)
	}
	return database.InitDB(ctx, pool)
}

// applyEvents folds change notifications back into the cache. Payloads
// carry ids only, so current state is re-fetched from storage.
func applyEvents(ctx context.Context, a *app.App, sub *events.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			applyEvent(ctx, a, event)
		}
	}
}

func applyEvent(ctx context.Context, a *app.App, event events.Event) {
	switch event.Type {
	case events.EventItemCreated, events.EventItemUpdated:
		item, err := a.Repo().GetItemByID(ctx, event.EntityID)
		if err != nil {
			slog.Warn("failed to refresh item", "id", event.EntityID, "error", err)
			return
		}
		a.Store.UpdateItem(item)
	case events.EventItemDeleted:
		a.Store.RemoveItem(event.EntityID)
	case events.EventProjectCreated, events.EventProjectUpdated:
		project, err := a.Repo().GetProjectByID(ctx, event.EntityID)
		if err != nil {
			slog.Warn("failed to refresh project", "id", event.EntityID, "error", err)
			return
		}
		a.Store.UpdateProject(project)
	case events.EventProjectDeleted:
		a.Store.RemoveProject(event.EntityID)
	case events.EventSectionCreated, events.EventSectionUpdated:
		section, err := a.Repo().GetSectionByID(ctx, event.EntityID)
		if err != nil {
			slog.Warn("failed to refresh section", "id", event.EntityID, "error", err)
			return
		}
		a.Store.UpdateSection(section)
	case events.EventSectionDeleted:
		a.Store.RemoveSection(event.EntityID)
	case events.EventLabelCreated, events.EventLabelUpdated:
		label, err := a.Repo().GetLabelByID(ctx, event.EntityID)
		if err != nil {
			slog.Warn("failed to refresh label", "id", event.EntityID, "error", err)
			return
		}
		a.Store.UpdateLabel(label)
	case events.EventLabelDeleted:
		a.Store.RemoveLabel(event.EntityID)
	case events.EventBulkUpdate, events.EventItemsPositionUpdated:
		// Coarse events: reload wholesale rather than guessing deltas
		if err := a.WarmCache(ctx); err != nil {
			slog.Warn("failed to reload cache after bulk change", "error", err)
		}
	}
}
