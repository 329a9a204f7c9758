package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/YureAnjos/nfce-pricing-engine/db"
	"github.com/YureAnjos/nfce-pricing-engine/models"
	"github.com/YureAnjos/nfce-pricing-engine/utils"
)

// NoteRepository handles local SQLite persistence of notes
type NoteRepository struct{}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{}
}

// Ensure NoteRepository implements NoteRepositoryInterface
var _ NoteRepositoryInterface = (*NoteRepository)(nil)

// Upsert stores a note, replacing any existing record with the same URL
func (r *NoteRepository) Upsert(ctx context.Context, note *models.Note) error {
	itemsJSON, err := json.Marshal(note.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal note items: %w", err)
	}

	query := `
		INSERT INTO notes (id, url, name, date, total_price, items, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url)
		DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			total_price = excluded.total_price,
			items = excluded.items,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Local.ExecContext(ctx, query,
		uuid.NewString(), note.URL, note.Name, note.Date, note.TotalPrice, string(itemsJSON), now)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}

	log.Printf("💾 Saved note locally: url=%s, items=%d", note.URL, len(note.Items))
	return nil
}

// GetByURL retrieves a note by its receipt URL
func (r *NoteRepository) GetByURL(ctx context.Context, url string) (*models.Note, error) {
	query := `
		SELECT url, name, date, total_price, items
		FROM notes
		WHERE url = ?
	`

	note, err := scanNote(db.Local.QueryRowContext(ctx, query, url))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("note with url %s: %w", url, ErrNoteNotFound)
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// List returns all locally stored notes sorted by emission date
func (r *NoteRepository) List(ctx context.Context) ([]models.Note, error) {
	query := `
		SELECT url, name, date, total_price, items
		FROM notes
	`

	rows, err := db.Local.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortNotesByDate(notes)
	return notes, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var itemsJSON string
	if err := row.Scan(&note.URL, &note.Name, &note.Date, &note.TotalPrice, &itemsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &note.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note items: %w", err)
	}
	return &note, nil
}

// sortNotesByDate orders notes by their DD/MM/YYYY emission date, oldest
// first. Unparseable dates sort to the front.
func sortNotesByDate(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		ti, erri := utils.ParseNoteDate(notes[i].Date)
		tj, errj := utils.ParseNoteDate(notes[j].Date)
		if erri != nil || errj != nil {
			return erri != nil && errj == nil
		}
		return ti.Before(tj)
	})
}
