package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/patrickmn/go-cache"

	"github.com/YureAnjos/nfce-pricing-engine/models"
)

// ErrInvalidQRCode is returned when the scanned payload does not point at
// the SEFAZ receipt portal
var ErrInvalidQRCode = errors.New("invalid QR code: not a SEFAZ receipt URL")

const defaultScrapeTimeout = 30 * time.Second

// extractReceiptJS pulls the receipt line items and header fields out of the
// rendered SEFAZ page. Line items are table rows carrying a .txtTit (name),
// .valor (total price, comma decimal) and .Rqtd ("Qtde.:N") cell; the header
// is .txtTopo (supplier) and .txtMax (receipt total), and the emission date
// is the DD/MM/YYYY text inside the first info list entry.
const extractReceiptJS = `
	(function() {
		const items = [];
		document.querySelectorAll('table tr').forEach((row) => {
			const nameSpan = row.querySelector('.txtTit');
			const valueSpan = row.querySelector('.valor');
			const qtdSpan = row.querySelector('.Rqtd');

			if (nameSpan && valueSpan && qtdSpan) {
				items.push({
					name: nameSpan.innerText.trim(),
					price: parseFloat(valueSpan.innerText.trim().replace(',', '.')) || 0,
					units: parseInt(qtdSpan.innerText.trim().split(':')[1]) || 0,
				});
			}
		});

		let date = '';
		const infoEntry = document.querySelector(
			'body > div:nth-child(1) > div:nth-child(2) > div > div:nth-child(2) > div:nth-child(1) > div > ul > li'
		);
		if (infoEntry) {
			const match = infoEntry.innerText.match(/\d{2}\/\d{2}\/\d{4}/);
			if (match) date = match[0];
		}

		const txtTopo = document.querySelector('.txtTopo');
		const txtMax = document.querySelector('.txtMax');

		return {
			items: items,
			name: txtTopo ? txtTopo.innerText.trim() : '',
			date: date,
			totalPrice: txtMax ? txtMax.innerText.trim() : '',
		};
	})()
`

// ScraperService scrapes receipt pages from the SEFAZ portal with a
// headless browser. Results are cached per URL so re-scanning the same QR
// code within the window does not relaunch the browser.
type ScraperService struct {
	results *cache.Cache
	timeout time.Duration
}

// Ensure ScraperService implements ScraperServiceInterface
var _ ScraperServiceInterface = (*ScraperService)(nil)

// NewScraperService creates a new ScraperService. The scrape timeout can be
// overridden with SCRAPE_TIMEOUT (seconds).
func NewScraperService() *ScraperService {
	timeout := defaultScrapeTimeout
	if v := os.Getenv("SCRAPE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		} else {
			log.Printf("⚠️  Warning: invalid SCRAPE_TIMEOUT value %q, using default", v)
		}
	}

	return &ScraperService{
		results: cache.New(10*time.Minute, 30*time.Minute),
		timeout: timeout,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Scrape validates the scanned URL and extracts the receipt data from the
// rendered portal page
func (s *ScraperService) Scrape(ctx context.Context, url string) (*models.ScrapData, error) {
	if !strings.Contains(url, "sefaz") {
		return nil, ErrInvalidQRCode
	}

	if cached, found := s.results.Get(url); found {
		log.Printf("📄 Scrape: cache hit for %s", url)
		return cached.(*models.ScrapData), nil
	}

	log.Printf("📄 Scrape: fetching receipt page %s", url)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	chromePath := detectChromePath()
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if chromePath != "" {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromePath),
			chromedp.NoSandbox, // Required for running in Docker/containers
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
		defer allocCancel()
	} else {
		// Let chromedp auto-detect (may fail in containers)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, chromedp.NoSandbox)
		defer allocCancel()
	}

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var data models.ScrapData
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// The portal renders the item table after load
		chromedp.WaitVisible("table tr", chromedp.ByQuery),
		chromedp.Evaluate(extractReceiptJS, &data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape receipt page: %w", err)
	}

	if len(data.Items) == 0 {
		return nil, fmt.Errorf("no line items found on receipt page %s", url)
	}

	log.Printf("✅ Scrape: extracted %d items from %s (supplier=%s, date=%s)",
		len(data.Items), url, data.Name, data.Date)

	s.results.Set(url, &data, cache.DefaultExpiration)
	return &data, nil
}
