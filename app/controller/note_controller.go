package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/YureAnjos/nfce-pricing-engine/models"
	"github.com/YureAnjos/nfce-pricing-engine/repository"
	"github.com/YureAnjos/nfce-pricing-engine/service"
)

// NoteController handles HTTP requests for the note in progress and the
// notes lists
type NoteController struct {
	noteService service.NoteServiceInterface
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService service.NoteServiceInterface) *NoteController {
	return &NoteController{
		noteService: noteService,
	}
}

// Scan handles POST /scan
// Scrapes the receipt behind a scanned QR code URL and starts a note
func (c *NoteController) Scan(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Scan: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Scan: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		http.Error(w, "url cannot be empty", http.StatusBadRequest)
		return
	}

	note, err := c.noteService.StartFromScan(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQRCode) {
			log.Printf("❌ Scan: Invalid QR code: %s", req.URL)
			http.Error(w, "Invalid QR code", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("❌ Scan: Failed to scrape receipt: %v", err)
		http.Error(w, fmt.Sprintf("Failed to scrape receipt: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// GetNote handles GET /note
// Returns the note in progress
func (c *NoteController) GetNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	note := c.noteService.CurrentNote()
	if note == nil {
		http.Error(w, "No note in progress", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// EditItem handles POST /note/items/{index}
// Applies one edit operation to an item of the note in progress
func (c *NoteController) EditItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	indexStr := strings.TrimPrefix(r.URL.Path, "/note/items/")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid item index: %s", indexStr), http.StatusBadRequest)
		return
	}

	var edit models.ItemEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		log.Printf("❌ EditItem: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := c.noteService.EditItem(index, edit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoNote):
			http.Error(w, "No note in progress", http.StatusNotFound)
		case errors.Is(err, service.ErrItemIndexOutOfRange):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			log.Printf("❌ EditItem: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SaveRemote handles POST /note/save
// Explicitly saves the note in progress to the remote store
func (c *NoteController) SaveRemote(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SaveRemote: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := c.noteService.SaveRemote(r.Context()); err != nil {
		switch {
		case errors.Is(err, service.ErrNoNote):
			http.Error(w, "No note in progress", http.StatusNotFound)
		case errors.Is(err, service.ErrSaveInFlight):
			http.Error(w, "A remote save is already in flight", http.StatusConflict)
		case errors.Is(err, service.ErrRemoteNotConfigured):
			http.Error(w, "Remote store is not configured", http.StatusServiceUnavailable)
		default:
			log.Printf("❌ SaveRemote: %v", err)
			http.Error(w, fmt.Sprintf("Remote save failed: %v", err), http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ListLocal handles GET /notes
// Returns all locally persisted notes sorted by emission date
func (c *NoteController) ListLocal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notes, err := c.noteService.ListLocal(r.Context())
	if err != nil {
		log.Printf("❌ ListLocal: %v", err)
		http.Error(w, fmt.Sprintf("Failed to list notes: %v", err), http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

// ListRemote handles GET /notes/remote
// Returns all remotely persisted notes sorted by emission date
func (c *NoteController) ListRemote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notes, err := c.noteService.ListRemote(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrRemoteNotConfigured) {
			http.Error(w, "Remote store is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("❌ ListRemote: %v", err)
		http.Error(w, fmt.Sprintf("Failed to list remote notes: %v", err), http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

// LoadNote handles POST /note/load
// Reopens a locally persisted note as the note in progress
func (c *NoteController) LoadNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	note, err := c.noteService.LoadNote(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			http.Error(w, fmt.Sprintf("Note not found: %s", req.URL), http.StatusNotFound)
			return
		}
		log.Printf("❌ LoadNote: %v", err)
		http.Error(w, fmt.Sprintf("Failed to load note: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
