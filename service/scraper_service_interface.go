package service

import (
	"context"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// ScraperServiceInterface defines the contract for receipt page scraping
type ScraperServiceInterface interface {
	Scrape(ctx context.Context, url string) (*models.ScrapData, error)
}
