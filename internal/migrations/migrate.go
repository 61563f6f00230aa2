// Package migrations embeds the schema migration files and applies them with
// goose at startup.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

const sqliteDialect = "sqlite3"

// Up runs all pending embedded SQL migrations.
func Up(db *sql.DB) error {
	goose.SetBaseFS(files)

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
