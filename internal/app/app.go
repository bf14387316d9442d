// Package app wires the configured storage backend, fixtures and services
// into a ready-to-use dish ranking application.
package app

import (
	"context"
	"fmt"

	"github.com/atinyakov/dishrank/internal/client/storage"
	"github.com/atinyakov/dishrank/internal/config"
	"github.com/atinyakov/dishrank/internal/db"
	"github.com/atinyakov/dishrank/internal/repository"
	httphandler "github.com/atinyakov/dishrank/internal/server/handler/http"
	"github.com/atinyakov/dishrank/internal/service"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// App holds the services shared by the HTTP server and the terminal client.
type App struct {
	Auth     *service.AuthService
	Ledger   *service.VoteLedger
	Catalog  *service.Catalog
	Rankings *service.RankingService

	log     *zap.Logger
	closers []func() error
}

// New opens storage, loads the roster and catalog, and restores persisted
// state. Unreadable persisted state is logged and the app starts empty;
// missing fixtures are fatal.
func New(ctx context.Context, opts *config.Options, log *zap.Logger) (*App, error) {
	a := &App{log: log}

	kv, err := a.openStore(opts)
	if err != nil {
		return nil, err
	}

	roster, err := repository.LoadRoster(opts.RosterPath)
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}
	dishes, err := repository.LoadDishes(opts.CatalogPath)
	if err != nil {
		return nil, multierr.Append(err, a.Close())
	}

	a.Auth = service.NewAuthService(roster, kv, log)
	a.Ledger = service.NewVoteLedger(a.Auth, kv, log)
	a.Catalog = service.NewCatalog(kv, log)
	a.Rankings = service.NewRankingService(a.Catalog, a.Ledger, a.Auth)

	if err := a.Auth.Load(ctx); err != nil {
		log.Warn("cannot restore identity, starting signed out", zap.Error(err))
	}
	if err := a.Ledger.Load(ctx); err != nil {
		log.Warn("cannot restore votes, starting empty", zap.Error(err))
	}
	if err := a.Catalog.Load(ctx); err != nil {
		log.Warn("cannot restore custom images", zap.Error(err))
	}

	a.Catalog.SetDishes(service.ResolveImages(ctx, a.imageResolver(opts), dishes))

	a.Auth.Subscribe(a.logEvent)
	a.Ledger.Subscribe(a.logEvent)
	a.Catalog.Subscribe(a.logEvent)

	log.Info("app ready",
		zap.Int("dishes", len(dishes)),
		zap.Int("votes", len(a.Ledger.Votes())),
	)
	return a, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	a.closers = nil
	return err
}

// openStore picks Postgres when a DSN is configured and the JSON file otherwise.
func (a *App) openStore(opts *config.Options) (service.KeyValueStore, error) {
	if opts.DatabaseDSN != "" {
		conn, err := db.InitPostgres(opts.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		a.log.Info("using postgres storage")
		return repository.NewPostgresKVRepository(conn), nil
	}

	fs := storage.NewFileStore(opts.StoragePath)
	if err := fs.Load(); err != nil {
		a.log.Warn("storage file unreadable, starting empty",
			zap.String("path", opts.StoragePath), zap.Error(err))
	}
	a.log.Info("using file storage", zap.String("path", opts.StoragePath))
	return fs, nil
}

func (a *App) imageResolver(opts *config.Options) service.ImageResolver {
	fr := &service.FallbackResolver{Fallback: opts.FallbackImage, Log: a.log}
	if opts.ImageDir == "" {
		return fr
	}
	bundled, err := service.ScanImageDir(opts.ImageDir, httphandler.AssetsPrefix)
	if err != nil {
		a.log.Warn("bundled images unavailable", zap.String("dir", opts.ImageDir), zap.Error(err))
		return fr
	}
	fr.Resolvers = append(fr.Resolvers, bundled)
	return fr
}

func (a *App) logEvent(e service.Event) {
	a.log.Debug("state changed",
		zap.String("kind", string(e.Kind)),
		zap.String("user", e.UserID),
		zap.Int("dish_id", e.DishID),
		zap.Int("rank", int(e.Rank)),
	)
}
