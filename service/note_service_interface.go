package service

import (
	"context"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// NoteServiceInterface defines the contract for the note-in-progress state
// and its persistence lifecycle
type NoteServiceInterface interface {
	StartFromScan(ctx context.Context, url string) (*models.Note, error)
	LoadNote(ctx context.Context, url string) (*models.Note, error)
	CurrentNote() *models.Note
	EditItem(index int, edit models.ItemEdit) (*models.ItemEditResult, error)
	SaveRemote(ctx context.Context) error
	ListLocal(ctx context.Context) ([]models.Note, error)
	ListRemote(ctx context.Context) ([]models.Note, error)
}
