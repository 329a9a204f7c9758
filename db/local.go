package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Local holds the local SQLite connection
var Local *sql.DB

// InitLocalDB opens the local SQLite database and applies pending
// migrations. The path comes from LOCAL_DB_PATH (default "notes.db").
func InitLocalDB() error {
	path := os.Getenv("LOCAL_DB_PATH")
	if path == "" {
		path = "notes.db"
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)

	var err error
	Local, err = sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open local database at %s: %w", path, err)
	}

	// Single connection avoids SQLite locking issues
	Local.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := Local.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping local database: %w", err)
	}

	if err := runLocalMigrations(); err != nil {
		return err
	}

	log.Printf("✓ Local database ready at %s", path)
	return nil
}

// runLocalMigrations applies the embedded schema migrations
func runLocalMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(Local, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "notes", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("✓ No new local migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to apply local migrations: %w", err)
	}

	log.Printf("✓ Local migrations applied")
	return nil
}

// CloseLocalDB closes the local database connection
func CloseLocalDB() error {
	if Local != nil {
		return Local.Close()
	}
	return nil
}
