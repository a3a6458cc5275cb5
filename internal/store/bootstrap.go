package store

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/coby5502/dango/internal/config"
	"github.com/coby5502/dango/schemas"
)

// DefaultLoadTimeout bounds how long a single tier may block the caller
// while loading. Bootstrap is the one place in the system that blocks
// synchronously: repositories create handles off the adopted store right
// after, and an async load would let them attach to nothing.
const DefaultLoadTimeout = 10 * time.Second

// Attempt records the outcome of loading one tier. Used only to decide
// whether to advance to the next tier and to compose a diagnostic.
type Attempt struct {
	Kind BackendKind
	Err  error
}

// FatalError reports that no tier loaded, including the in-memory last
// resort. There is no further fallback; startup must abort.
type FatalError struct {
	Attempts []Attempt
}

func (e *FatalError) Error() string {
	return "no storage tier could be loaded, including in-memory: " + formatAttempts(e.Attempts)
}

// formatAttempts flattens the per-tier errors into a single joined
// diagnostic string.
func formatAttempts(attempts []Attempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if a.Err == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", a.Kind, a.Err))
	}
	return strings.Join(parts, " | ")
}

// Store is the adopted storage handle. The backend is chosen once at
// bootstrap and never swapped afterward.
type Store struct {
	db       *sqlx.DB
	kind     BackendKind
	attempts []Attempt
}

// DB returns the underlying database handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Kind returns the adopted tier.
func (s *Store) Kind() BackendKind {
	return s.kind
}

// Attempts returns the failed attempts that preceded adoption.
func (s *Store) Attempts() []Attempt {
	return s.attempts
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Options configures Bootstrap.
type Options struct {
	// InMemory restricts the tiers to the in-memory backend: every other
	// tier in the list is skipped without being dialed. Used in tests.
	InMemory bool
	// LoadTimeout bounds each tier load. Zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// Tiers builds the ordered tier list: remote-sync when a database host is
// configured, then local-only, then in-memory. With inMemory only the
// in-memory tier is used.
func Tiers(cfg *config.Config, inMemory bool) []Backend {
	if inMemory {
		return []Backend{NewInMemoryBackend()}
	}
	var tiers []Backend
	if cfg.Database.Host != "" {
		tiers = append(tiers, NewMySQLBackend(cfg.Database))
	}
	tiers = append(tiers,
		NewLocalBackend(cfg.Store.LocalPath),
		NewInMemoryBackend(),
	)
	return tiers
}

// Bootstrap tries each tier in order with a bounded blocking load and adopts
// the first that succeeds. cell receives the status transitions: Synced when
// the remote-sync tier is adopted, Error with a joined diagnostic when it
// fails, and Offline when a lower tier ends up active. The returned error is
// non-nil only when every tier failed, which is unrecoverable.
func Bootstrap(ctx context.Context, tiers []Backend, cell *StatusCell, opts Options) (*Store, error) {
	timeout := opts.LoadTimeout
	if timeout == 0 {
		timeout = DefaultLoadTimeout
	}

	if opts.InMemory {
		inMemoryOnly := make([]Backend, 0, 1)
		for _, tier := range tiers {
			if tier.Kind() == InMemory {
				inMemoryOnly = append(inMemoryOnly, tier)
			}
		}
		tiers = inMemoryOnly
	}

	var attempts []Attempt
	for _, tier := range tiers {
		loadCtx, cancel := context.WithTimeout(ctx, timeout)
		db, err := tier.Load(loadCtx)
		if err == nil {
			err = applyMigrations(loadCtx, db)
			if err != nil {
				_ = db.Close()
			}
		}
		cancel()

		if err != nil {
			attempts = append(attempts, Attempt{Kind: tier.Kind(), Err: err})
			slog.Default().Warn("storage tier failed to load",
				"tier", tier.Kind().String(),
				"error", err,
			)
			if tier.Kind() == RemoteSync {
				cell.Set(ErrorStatus(formatAttempts(attempts)))
			}
			continue
		}

		switch tier.Kind() {
		case RemoteSync:
			cell.Set(Synced)
		default:
			// Local persistence is healthy; remote sync is simply
			// unavailable, not erroring.
			cell.Set(Offline)
		}
		return &Store{db: db, kind: tier.Kind(), attempts: attempts}, nil
	}

	return nil, &FatalError{Attempts: attempts}
}

// applyMigrations runs the embedded migrations for the handle's driver
// dialect. Applied uniformly whichever tier was adopted; on every tier the
// words table carries a uniqueness key so writes resolve latest-wins.
func applyMigrations(ctx context.Context, db *sqlx.DB) error {
	dir := "migrations/" + db.DriverName()
	entries, err := fs.ReadDir(schemas.Migrations, dir)
	if err != nil {
		return fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := fs.ReadFile(schemas.Migrations, dir+"/"+name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("db.ExecContext(%s) > %w", name, err)
		}
	}
	return nil
}
