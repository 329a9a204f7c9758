package repository

import (
	"context"
	"errors"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// ErrNoteNotFound is returned when no note exists for the requested URL
var ErrNoteNotFound = errors.New("note not found")

// NoteRepositoryInterface defines the contract for local note persistence.
// Notes are keyed by their receipt URL: saving a note whose URL already
// exists replaces the stored record in place.
type NoteRepositoryInterface interface {
	Upsert(ctx context.Context, note *models.Note) error
	GetByURL(ctx context.Context, url string) (*models.Note, error)
	List(ctx context.Context) ([]models.Note, error)
}

// RemoteNoteRepositoryInterface defines the contract for the remote note
// store. Same upsert-by-URL semantics as the local repository.
type RemoteNoteRepositoryInterface interface {
	Upsert(ctx context.Context, note *models.Note) error
	List(ctx context.Context) ([]models.Note, error)
}
