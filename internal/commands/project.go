package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/floraledger/flora/internal/config"
	"github.com/floraledger/flora/internal/ledger"
	"github.com/floraledger/flora/internal/logger"
	"github.com/floraledger/flora/internal/report"
	"github.com/floraledger/flora/internal/store"
)

const connectTimeout = 10 * time.Second

// project is an opened flora project: configuration, storage and the
// ledger service loaded from it.
type project struct {
	dir   string
	cfg   *config.Config
	log   zerolog.Logger
	repo  *store.Repository
	svc   *ledger.Service
	close func(context.Context) error
}

// openProject loads flora.yaml (plus .env overrides) from dir, connects the
// configured backend and loads the ledger.
func openProject(ctx context.Context, dir string) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfgPath := filepath.Join(absDir, config.FileName)
	cfg, err := config.LoadWithEnv(cfgPath, filepath.Join(absDir, ".env"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %s; run 'flora init' first", config.FileName, absDir)
	}
	if err != nil {
		return nil, err
	}

	log, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	backend, closeFn, err := openBackend(ctx, absDir, cfg)
	if err != nil {
		return nil, err
	}

	repo := store.NewRepository(backend,
		store.WithNamespace(cfg.Storage.Namespace),
		store.WithDefaultSettings(cfg.Settings.LedgerSettings()),
		store.WithLogger(log),
	)
	svc := ledger.NewService(repo.Load(ctx),
		ledger.WithPersister(repo),
		ledger.WithLogger(log),
	)

	return &project{dir: absDir, cfg: cfg, log: log, repo: repo, svc: svc, close: closeFn}, nil
}

func openBackend(ctx context.Context, dir string, cfg *config.Config) (store.Backend, func(context.Context) error, error) {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		b, err := store.NewMongoBackend(cctx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database, cfg.Storage.Mongo.Collection)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		path := cfg.Storage.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return store.NewFileBackend(path), func(context.Context) error { return nil }, nil
	}
}

// withProject opens the project, runs fn and closes the backend.
func withProject(ctx context.Context, opts *globalOptions, fn func(*project) error) error {
	p, err := openProject(ctx, opts.dir)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(ctx, p.log)
	defer func() {
		if err := p.close(ctx); err != nil {
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Msg("closing storage")
		}
	}()
	return fn(p)
}

// printMarkdown renders md in the configured style.
func printMarkdown(w io.Writer, opts *globalOptions, md string) error {
	out, err := report.Render(md, opts.style, opts.width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
