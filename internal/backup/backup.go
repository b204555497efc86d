// Package backup writes JSON snapshots of the persisted ledger and prunes
// old ones, on demand or on a cron schedule.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/floraledger/flora/internal/export"
	"github.com/floraledger/flora/internal/model"
)

const filePrefix = "flora_ledger_backup_"

// Loader reads the persisted ledger.
type Loader interface {
	LoadStrict(ctx context.Context) (model.BusinessState, error)
}

// Backup snapshots the state a Loader returns into a directory.
type Backup struct {
	loader Loader
	dir    string
	keep   int
	now    func() time.Time
	log    zerolog.Logger
}

// Option configures a Backup.
type Option func(*Backup)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backup) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backup) { b.log = l }
}

// New creates a Backup writing into dir and keeping the newest keep
// snapshots. keep <= 0 keeps everything.
func New(loader Loader, dir string, keep int, opts ...Option) *Backup {
	b := &Backup{
		loader: loader,
		dir:    dir,
		keep:   keep,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunOnce writes today's snapshot, replacing an earlier one from the same
// day, then prunes. It returns the snapshot path.
func (b *Backup) RunOnce(ctx context.Context) (string, error) {
	state, err := b.loader.LoadStrict(ctx)
	if err != nil {
		return "", fmt.Errorf("loading ledger: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteSnapshot(&buf, state); err != nil {
		return "", err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	path := filepath.Join(b.dir, export.SnapshotFileName(b.now().UTC()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	removed, err := b.Prune()
	if err != nil {
		return path, err
	}
	b.log.Info().Str("path", path).Int("transactions", len(state.Transactions)).Int("pruned", len(removed)).Msg("backup written")
	return path, nil
}

// List returns the snapshot files in the directory, oldest first.
func (b *Backup) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, filepath.Join(b.dir, e.Name()))
	}
	// Names embed an ISO date, so lexical order is chronological.
	sort.Strings(names)
	return names, nil
}

// Prune deletes all but the newest keep snapshots and returns the removed
// paths.
func (b *Backup) Prune() ([]string, error) {
	if b.keep <= 0 {
		return nil, nil
	}
	names, err := b.List()
	if err != nil {
		return nil, err
	}
	if len(names) <= b.keep {
		return nil, nil
	}
	stale := names[:len(names)-b.keep]
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return nil, fmt.Errorf("pruning %s: %w", filepath.Base(p), err)
		}
	}
	return stale, nil
}
