package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Remote holds the remote PostgreSQL connection used for note sync
var Remote *sql.DB

// InitRemoteDB initializes the remote database connection from environment
// variables. Set DATABASE_URL, or the individual DB_HOST, DB_USER, DB_NAME
// (plus optional DB_PORT, DB_PASSWORD, DB_SSLMODE) variables.
func InitRemoteDB() error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		// Build connection string from individual variables
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		user := os.Getenv("DB_USER")
		password := os.Getenv("DB_PASSWORD")
		dbname := os.Getenv("DB_NAME")
		sslmode := os.Getenv("DB_SSLMODE")

		if host == "" || user == "" || dbname == "" {
			return fmt.Errorf("remote database variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
		}

		if port == "" {
			port = "5432"
		}
		if sslmode == "" {
			sslmode = "disable"
		}

		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	var err error
	Remote, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open remote database connection: %w", err)
	}

	ctx := context.Background()
	if err := Remote.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping remote database: %w", err)
	}

	log.Printf("✓ Remote database connection established successfully")
	return nil
}

// CloseRemoteDB closes the remote database connection
func CloseRemoteDB() error {
	if Remote != nil {
		return Remote.Close()
	}
	return nil
}
