package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gbarzani/orgchart/internal/config"
	"github.com/gbarzani/orgchart/modules/tree/domain/ports"
	"github.com/gbarzani/orgchart/modules/tree/infrastructure/persistence"
	"github.com/gbarzani/orgchart/modules/tree/services"
	"github.com/gbarzani/orgchart/pkg/langs"
)

// schemaStore is the store surface the CLI needs beyond the engine port.
type schemaStore interface {
	ports.TreeStore
	EnsureSchema(ctx context.Context) error
}

type engine struct {
	cfg      config.Config
	store    schemaStore
	registry *langs.Registry
	query    services.NodeQueryService
	write    services.NodeWriteService
	closeFn  func()
}

func (e *engine) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

func openEngine(ctx context.Context, opts *RootOptions) (*engine, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	registry, err := langs.NewRegistry(cfg.Languages.Supported, cfg.Languages.Default)
	if err != nil {
		return nil, err
	}

	var store schemaStore
	var closeFn func()
	switch cfg.Database.Driver {
	case "sqlite":
		slog.Debug("opening sqlite store", "path", cfg.Database.DSN)
		s, err := persistence.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		store = s
		closeFn = func() { _ = s.Close() }
	case "postgres":
		slog.Debug("connecting postgres store")
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		store = persistence.NewPGStore(pool)
		closeFn = pool.Close
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	return &engine{
		cfg:      cfg,
		store:    store,
		registry: registry,
		query: services.NewNodeQueryService(store, registry, services.QueryOptions{
			CaseSensitiveSearch: !cfg.CaseInsensitiveSearch(),
		}),
		write:   services.NewNodeWriteService(store, registry),
		closeFn: closeFn,
	}, nil
}

// pageSize resolves the --page-size flag against the configured default.
func (e *engine) pageSize(explicit bool, flagValue int) int {
	if explicit {
		return flagValue
	}
	return e.cfg.Page.DefaultSize
}
