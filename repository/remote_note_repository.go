package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/YureAnjos/nfce-pricing-engine/db"
	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// RemoteNoteRepository handles note sync against the remote PostgreSQL store
type RemoteNoteRepository struct{}

// NewRemoteNoteRepository creates a new RemoteNoteRepository
func NewRemoteNoteRepository() *RemoteNoteRepository {
	return &RemoteNoteRepository{}
}

// Ensure RemoteNoteRepository implements RemoteNoteRepositoryInterface
var _ RemoteNoteRepositoryInterface = (*RemoteNoteRepository)(nil)

// EnsureSchema creates the remote notes table if it does not exist yet
func (r *RemoteNoteRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS notes (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			total_price TEXT NOT NULL,
			items JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := db.Remote.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure remote notes table: %w", err)
	}
	return nil
}

// Upsert saves a note remotely, replacing any record with the same URL
func (r *RemoteNoteRepository) Upsert(ctx context.Context, note *models.Note) error {
	itemsJSON, err := json.Marshal(note.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal note items: %w", err)
	}

	query := `
		INSERT INTO notes (id, url, name, date, total_price, items, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url)
		DO UPDATE SET
			name = EXCLUDED.name,
			date = EXCLUDED.date,
			total_price = EXCLUDED.total_price,
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at
	`

	_, err = db.Remote.ExecContext(ctx, query,
		uuid.NewString(), note.URL, note.Name, note.Date, note.TotalPrice, string(itemsJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert remote note: %w", err)
	}

	log.Printf("☁️  Saved note remotely: url=%s, items=%d", note.URL, len(note.Items))
	return nil
}

// List returns all remotely stored notes sorted by emission date
func (r *RemoteNoteRepository) List(ctx context.Context) ([]models.Note, error) {
	query := `
		SELECT url, name, date, total_price, items
		FROM notes
	`

	rows, err := db.Remote.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan remote note row: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortNotesByDate(notes)
	return notes, nil
}
