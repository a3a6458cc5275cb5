// Package store brings a durable word store online through an ordered list of
// storage tiers and tracks the health of the remote-synced tier afterward.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/coby5502/dango/internal/config"
)

//go:generate mockgen -source=backend.go -destination=../mocks/store/mock_backend.go -package=mock_store
//go:generate mockgen -source=monitor.go -destination=../mocks/store/mock_monitor.go -package=mock_store

// BackendKind identifies one storage tier.
type BackendKind int

const (
	RemoteSync BackendKind = iota
	LocalOnly
	InMemory
)

func (k BackendKind) String() string {
	switch k {
	case RemoteSync:
		return "remote_sync"
	case LocalOnly:
		return "local_only"
	case InMemory:
		return "in_memory"
	default:
		return "unknown"
	}
}

// Backend is one candidate storage tier. Load opens the backing database and
// verifies it is reachable; the caller bounds ctx with the load timeout.
type Backend interface {
	Kind() BackendKind
	Load(ctx context.Context) (*sqlx.DB, error)
}

// MySQLBackend is the remote-sync tier: a shared MySQL database that every
// device of the account writes to.
type MySQLBackend struct {
	cfg config.DatabaseConfig
}

// NewMySQLBackend creates the remote-sync tier from the database config.
func NewMySQLBackend(cfg config.DatabaseConfig) *MySQLBackend {
	return &MySQLBackend{cfg: cfg}
}

func (b *MySQLBackend) Kind() BackendKind {
	return RemoteSync
}

func (b *MySQLBackend) Load(ctx context.Context) (*sqlx.DB, error) {
	cfg := b.cfg
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.MultiStatements = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}
	if len(cfg.Params) > 0 {
		mysqlCfg.Params = cfg.Params
	}

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.PingContext > %w", err)
	}
	return db, nil
}

// SQLiteBackend is the local-only tier (file database) or the in-memory last
// resort, depending on the path it is constructed with.
type SQLiteBackend struct {
	kind BackendKind
	path string
}

// NewLocalBackend creates the local-only tier storing at path.
func NewLocalBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{kind: LocalOnly, path: path}
}

// NewInMemoryBackend creates the in-memory last-resort tier.
func NewInMemoryBackend() *SQLiteBackend {
	return &SQLiteBackend{kind: InMemory, path: ":memory:"}
}

func (b *SQLiteBackend) Kind() BackendKind {
	return b.kind
}

func (b *SQLiteBackend) Load(ctx context.Context) (*sqlx.DB, error) {
	if b.kind == LocalOnly {
		if dir := filepath.Dir(b.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", b.path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes
	// writers for the file database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.PingContext > %w", err)
	}
	return db, nil
}
