package injury

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultReportURL is the public injury-report page scraped when no
	// override is configured.
	DefaultReportURL = "https://www.cbssports.com/nba/injuries/"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to prevent rate limiting
	MinRequestInterval = 2 * time.Second
)

// Client fetches the rendered injury-report page with a headless browser.
// The page builds its table with JavaScript, so a plain GET is not enough.
type Client struct {
	url         string
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a new injury-report scraper client.
func NewClient(url string) (*Client, error) {
	if url == "" {
		url = DefaultReportURL
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		url:      url,
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases browser resources.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchReport fetches and parses the current injury report.
func (c *Client) FetchReport(ctx context.Context) ([]Report, error) {
	html, err := c.fetchWithRateLimit(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return ParseReport(doc), nil
}

// fetchWithRateLimit fetches the page with automatic rate limiting.
func (c *Client) fetchWithRateLimit(ctx context.Context) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			waitTime := c.interval - elapsed
			log.Printf("[injury-client] Rate limiting: waiting %v before next request", waitTime)
			time.Sleep(waitTime)
		}
	}

	html, err := c.fetch(ctx)
	c.lastRequest = time.Now()

	return html, err
}

// fetch performs the actual page load using chromedp.
func (c *Client) fetch(ctx context.Context) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(c.url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}
