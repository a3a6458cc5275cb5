// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains all SQL migration files, grouped by driver dialect.
//
//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
