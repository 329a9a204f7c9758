package router

import (
	"net/http"

	"github.com/YureAnjos/nfce-pricing-engine/app/controller"
)

type Controllers struct {
	Note *controller.NoteController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Start a note from a scanned QR code URL
	http.HandleFunc("/scan", controllers.Note.Scan)

	// Note in progress
	http.HandleFunc("/note", controllers.Note.GetNote)

	// Reopen a persisted note
	http.HandleFunc("/note/load", controllers.Note.LoadNote)

	// Explicit remote save
	http.HandleFunc("/note/save", controllers.Note.SaveRemote)

	// Item edits: POST /note/items/{index}
	http.HandleFunc("/note/items/", controllers.Note.EditItem)

	// Notes lists
	http.HandleFunc("/notes", controllers.Note.ListLocal)
	http.HandleFunc("/notes/remote", controllers.Note.ListRemote)
}
