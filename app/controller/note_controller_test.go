package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/YureAnjos/nfce-pricing-engine/models"
	"github.com/YureAnjos/nfce-pricing-engine/service"
)

// mockNoteService drives the controller without scraping or databases
type mockNoteService struct {
	note       *models.Note
	scanErr    error
	saveErr    error
	editResult *models.ItemEditResult
	editErr    error
}

func (m *mockNoteService) StartFromScan(ctx context.Context, url string) (*models.Note, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	return m.note, nil
}

func (m *mockNoteService) LoadNote(ctx context.Context, url string) (*models.Note, error) {
	return m.note, nil
}

func (m *mockNoteService) CurrentNote() *models.Note {
	return m.note
}

func (m *mockNoteService) EditItem(index int, edit models.ItemEdit) (*models.ItemEditResult, error) {
	if m.editErr != nil {
		return nil, m.editErr
	}
	return m.editResult, nil
}

func (m *mockNoteService) SaveRemote(ctx context.Context) error {
	return m.saveErr
}

func (m *mockNoteService) ListLocal(ctx context.Context) ([]models.Note, error) {
	if m.note == nil {
		return nil, nil
	}
	return []models.Note{*m.note}, nil
}

func (m *mockNoteService) ListRemote(ctx context.Context) ([]models.Note, error) {
	return nil, service.ErrRemoteNotConfigured
}

func testNote() *models.Note {
	return &models.Note{
		Items:      []models.Item{{Name: "ARROZ TIPO 1 5KG", Units: 10, Price: 100}},
		Name:       "SUPERMERCADO MODELO LTDA",
		Date:       "25/12/2024",
		TotalPrice: "135,90",
		URL:        "https://sefaz.example/p=1",
	}
}

func TestNoteController_ScanInvalidQRCode(t *testing.T) {
	c := NewNoteController(&mockNoteService{scanErr: service.ErrInvalidQRCode})

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	c.Scan(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestNoteController_ScanReturnsNote(t *testing.T) {
	c := NewNoteController(&mockNoteService{note: testNote()})

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"url":"https://sefaz.example/p=1"}`))
	rec := httptest.NewRecorder()
	c.Scan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var note models.Note
	if err := json.NewDecoder(rec.Body).Decode(&note); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if note.URL != "https://sefaz.example/p=1" || len(note.Items) != 1 {
		t.Errorf("response note = %+v, want the scanned note", note)
	}
}

func TestNoteController_ScanRejectsEmptyURL(t *testing.T) {
	c := NewNoteController(&mockNoteService{note: testNote()})

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"url":" "}`))
	rec := httptest.NewRecorder()
	c.Scan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestNoteController_GetNoteWithoutNote(t *testing.T) {
	c := NewNoteController(&mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/note", nil)
	rec := httptest.NewRecorder()
	c.GetNote(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestNoteController_EditItem(t *testing.T) {
	result := &models.ItemEditResult{
		Index: 0,
		Patch: models.ItemPatch{"profitMargin": 40.0},
	}
	c := NewNoteController(&mockNoteService{editResult: result})

	req := httptest.NewRequest(http.MethodPost, "/note/items/0",
		strings.NewReader(`{"field":"profitMargin","value":40}`))
	rec := httptest.NewRecorder()
	c.EditItem(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got models.ItemEditResult
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Patch["profitMargin"] != 40.0 {
		t.Errorf("patch = %v, want profitMargin 40", got.Patch)
	}
}

func TestNoteController_EditItemBadIndex(t *testing.T) {
	c := NewNoteController(&mockNoteService{})

	req := httptest.NewRequest(http.MethodPost, "/note/items/abc",
		strings.NewReader(`{"field":"profitMargin","value":40}`))
	rec := httptest.NewRecorder()
	c.EditItem(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestNoteController_SaveRemoteConflict(t *testing.T) {
	c := NewNoteController(&mockNoteService{saveErr: service.ErrSaveInFlight})

	req := httptest.NewRequest(http.MethodPost, "/note/save", nil)
	rec := httptest.NewRecorder()
	c.SaveRemote(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestNoteController_ListLocalEmpty(t *testing.T) {
	c := NewNoteController(&mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	c.ListLocal(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestNoteController_ListRemoteUnavailable(t *testing.T) {
	c := NewNoteController(&mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes/remote", nil)
	rec := httptest.NewRecorder()
	c.ListRemote(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
