package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/YureAnjos/nfce-pricing-engine/models"
	"github.com/YureAnjos/nfce-pricing-engine/pricing"
	"github.com/YureAnjos/nfce-pricing-engine/repository"
	"github.com/YureAnjos/nfce-pricing-engine/utils"
)

var (
	// ErrNoNote is returned when an operation needs a note in progress and none exists
	ErrNoNote = errors.New("no note in progress")
	// ErrSaveInFlight is returned when a remote save is already running
	ErrSaveInFlight = errors.New("a remote save is already in flight")
	// ErrRemoteNotConfigured is returned when no remote store is available
	ErrRemoteNotConfigured = errors.New("remote store is not configured")
	// ErrItemIndexOutOfRange is returned for edits addressing a nonexistent item
	ErrItemIndexOutOfRange = errors.New("item index out of range")
)

// DefaultSaveDelay is the quiet period before an edited note is written to
// the local store. Bursts of edits inside the window coalesce into one write.
const DefaultSaveDelay = 1 * time.Second

// NoteService owns the note in progress: one edit session per item, the
// debounced local save and the explicit remote save. It replaces the
// original ambient context with a single explicitly-owned state object.
type NoteService struct {
	mu             sync.Mutex
	note           *models.Note
	sessions       []*pricing.Session
	dirty          bool
	saveTimer      *time.Timer
	remoteInFlight bool

	localRepo  repository.NoteRepositoryInterface
	remoteRepo repository.RemoteNoteRepositoryInterface
	scraper    ScraperServiceInterface
	saveDelay  time.Duration
}

// Ensure NoteService implements NoteServiceInterface
var _ NoteServiceInterface = (*NoteService)(nil)

// NewNoteService creates a new NoteService. remoteRepo may be nil when no
// remote store is configured; remote operations then fail recoverably.
func NewNoteService(
	localRepo repository.NoteRepositoryInterface,
	remoteRepo repository.RemoteNoteRepositoryInterface,
	scraper ScraperServiceInterface,
	saveDelay time.Duration,
) *NoteService {
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	return &NoteService{
		localRepo:  localRepo,
		remoteRepo: remoteRepo,
		scraper:    scraper,
		saveDelay:  saveDelay,
	}
}

// StartFromScan scrapes the receipt behind a scanned QR code URL and makes
// it the note in progress, with every item's pricing parameters defaulted
func (s *NoteService) StartFromScan(ctx context.Context, url string) (*models.Note, error) {
	data, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	note := models.NewNoteFromScrap(data, url)

	s.mu.Lock()
	s.setCurrentNote(note)
	s.dirty = true
	s.scheduleLocalSaveLocked()
	s.mu.Unlock()

	log.Printf("🧾 Note started from scan: url=%s, supplier=%s, items=%d", url, note.Name, len(note.Items))
	return note.Clone(), nil
}

// LoadNote reopens a locally persisted note as the note in progress
func (s *NoteService) LoadNote(ctx context.Context, url string) (*models.Note, error) {
	note, err := s.localRepo.GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.setCurrentNote(note)
	s.dirty = false
	s.mu.Unlock()

	log.Printf("🧾 Note loaded: url=%s, items=%d", url, len(note.Items))
	return note.Clone(), nil
}

// CurrentNote returns a copy of the note in progress, or nil
func (s *NoteService) CurrentNote() *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note.Clone()
}

// HasUnsavedChanges reports whether the note in progress has edits not yet
// saved to the remote store
func (s *NoteService) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// setCurrentNote installs a note and rebuilds its item sessions.
// Caller must hold s.mu.
func (s *NoteService) setCurrentNote(note *models.Note) {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.note = note
	s.sessions = make([]*pricing.Session, len(note.Items))
	for i, item := range note.Items {
		s.sessions[i] = pricing.NewSession(item)
	}
}

// EditItem applies one edit operation to the addressed item's session,
// merges the resulting patch into the note and schedules the debounced
// local save
func (s *NoteService) EditItem(index int, edit models.ItemEdit) (*models.ItemEditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.note == nil {
		return nil, ErrNoNote
	}
	if index < 0 || index >= len(s.sessions) {
		return nil, fmt.Errorf("index %d: %w", index, ErrItemIndexOutOfRange)
	}

	session := s.sessions[index]
	patch, err := applyEdit(session, edit)
	if err != nil {
		return nil, err
	}

	// The session is authoritative for the item's state after an edit
	s.note.Items[index] = session.Item()

	if len(patch) > 0 {
		s.dirty = true
		s.scheduleLocalSaveLocked()
	}

	quantities := session.Quantities()
	return &models.ItemEditResult{
		Index:      index,
		Patch:      patch,
		Item:       session.Item(),
		Quantities: quantities.Sanitized(),
		Display:    formatQuantities(quantities),
	}, nil
}

// applyEdit routes one edit to the matching session operation. Currency
// values arrive in centavos, percentages as plain numbers, units as text.
func applyEdit(session *pricing.Session, edit models.ItemEdit) (models.ItemPatch, error) {
	switch edit.Field {
	case "units":
		text, err := decodeText(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetUnits(text), nil
	case "price":
		cents, err := decodeCents(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetPrice(cents), nil
	case "profitMargin":
		percent, err := decodeNumber(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetProfitMargin(percent), nil
	case "discount":
		cents, err := decodeCents(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetDiscount(cents), nil
	case "discountPerc":
		percent, err := decodeNumber(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetDiscountPercent(percent), nil
	case "applyDiscounts":
		return session.ToggleApplyDiscounts(), nil
	case "customFinalPrice":
		cents, err := decodeCents(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetCustomFinalPrice(cents), nil
	case "useCustomFinalPrice":
		return session.ToggleUseCustomFinalPrice(), nil
	case "useRounding":
		return session.ToggleUseRounding(), nil
	case "roundingSteps":
		steps, err := decodeNumber(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetRoundingSteps(int(steps)), nil
	case "roundingDirection":
		direction, err := decodeText(edit.Value)
		if err != nil {
			return nil, err
		}
		return session.SetRoundingDirection(direction), nil
	default:
		return nil, fmt.Errorf("unknown editable field %q", edit.Field)
	}
}

// decodeText accepts a JSON string, or a bare number typed into a text field
func decodeText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected a string value, got %s", string(raw))
}

// decodeCents accepts an integer amount in centavos
func decodeCents(raw json.RawMessage) (int64, error) {
	var cents int64
	if err := json.Unmarshal(raw, &cents); err != nil {
		return 0, fmt.Errorf("expected an integer amount in centavos, got %s", string(raw))
	}
	return cents, nil
}

func decodeNumber(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("expected a numeric value, got %s", string(raw))
	}
	return n, nil
}

// formatQuantities renders the derived values as pt-BR currency strings,
// mapping non-finite values to R$ 0,00 ("not yet computable")
func formatQuantities(q models.Quantities) models.QuantityStrings {
	return models.QuantityStrings{
		UnitPrice:             utils.FormatBRL(utils.CentsOf(q.UnitPrice)),
		PriceDiscounted:       utils.FormatBRL(utils.CentsOf(q.PriceDiscounted)),
		UnitPriceDiscounted:   utils.FormatBRL(utils.CentsOf(q.UnitPriceDiscounted)),
		UnitFinalPrice:        utils.FormatBRL(utils.CentsOf(q.UnitFinalPrice)),
		UnitFinalPriceRounded: utils.FormatBRL(utils.CentsOf(q.UnitFinalPriceRounded)),
	}
}

// scheduleLocalSaveLocked (re)arms the debounce timer: a new edit inside the
// quiet period cancels the pending write, so at most one write survives a
// burst of edits. Caller must hold s.mu.
func (s *NoteService) scheduleLocalSaveLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.saveDelay, s.flushLocal)
}

// flushLocal writes the note in progress to the local store. A failed write
// is only logged: the state is still in memory and the next edit reschedules
// the save.
func (s *NoteService) flushLocal() {
	s.mu.Lock()
	snapshot := s.note.Clone()
	s.mu.Unlock()

	if snapshot == nil {
		return
	}

	if err := s.localRepo.Upsert(context.Background(), snapshot); err != nil {
		log.Printf("⚠️  Warning: local save failed, will retry on next edit: %v", err)
	}
}

// SaveRemote upserts the note in progress to the remote store. At most one
// save is in flight at a time; a failure leaves local state and the
// unsaved-changes flag untouched so the user can retry.
func (s *NoteService) SaveRemote(ctx context.Context) error {
	if s.remoteRepo == nil {
		return ErrRemoteNotConfigured
	}

	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return ErrNoNote
	}
	if s.remoteInFlight {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.remoteInFlight = true
	snapshot := s.note.Clone()
	s.mu.Unlock()

	err := s.remoteRepo.Upsert(ctx, snapshot)

	s.mu.Lock()
	s.remoteInFlight = false
	if err == nil {
		s.dirty = false
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("❌ Remote save failed for url=%s: %v", snapshot.URL, err)
		return fmt.Errorf("remote save failed: %w", err)
	}
	return nil
}

// ListLocal returns all locally persisted notes sorted by emission date
func (s *NoteService) ListLocal(ctx context.Context) ([]models.Note, error) {
	return s.localRepo.List(ctx)
}

// ListRemote returns all remotely persisted notes sorted by emission date
func (s *NoteService) ListRemote(ctx context.Context) ([]models.Note, error) {
	if s.remoteRepo == nil {
		return nil, ErrRemoteNotConfigured
	}
	return s.remoteRepo.List(ctx)
}
