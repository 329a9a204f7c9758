package app

import (
	"context"
	"fmt"
	"log"

	"github.com/YureAnjos/nfce-pricing-engine/app/controller"
	"github.com/YureAnjos/nfce-pricing-engine/app/router"
	"github.com/YureAnjos/nfce-pricing-engine/db"
	"github.com/YureAnjos/nfce-pricing-engine/repository"
	"github.com/YureAnjos/nfce-pricing-engine/service"
)

// Initialize initializes the application
func Initialize() error {
	// Local store is required
	if err := db.InitLocalDB(); err != nil {
		return fmt.Errorf("failed to initialize local database: %w", err)
	}

	// Remote store is optional: without it the app runs local-only and
	// remote saves report a recoverable error
	var remoteRepo repository.RemoteNoteRepositoryInterface
	if err := db.InitRemoteDB(); err != nil {
		log.Printf("⚠️  Warning: remote store unavailable, running local-only: %v", err)
	} else {
		repo := repository.NewRemoteNoteRepository()
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return err
		}
		remoteRepo = repo
	}

	// Initialize scraper
	scraperService := service.NewScraperService()

	// Initialize repositories and services
	noteRepo := repository.NewNoteRepository()
	noteService := service.NewNoteService(noteRepo, remoteRepo, scraperService, service.DefaultSaveDelay)

	// Create controllers
	controllers := &router.Controllers{
		Note: controller.NewNoteController(noteService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
