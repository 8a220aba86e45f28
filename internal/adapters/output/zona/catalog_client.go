package zona

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"cinemabot/configs"
	"cinemabot/internal/domain"
	"cinemabot/internal/ports/output"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure CatalogClient implements the output port
var _ output.CatalogClient = (*CatalogClient)(nil)

const (
	defaultFetchTimeout = 10 * time.Second
	searchAttempts      = 3
	searchRetryDelay    = 300 * time.Millisecond

	noCoverPath = "/img/nocover.png"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var backgroundImageRe = regexp.MustCompile(`background-image:\s*url\(([^)]+)\)`)

// CatalogClient struct - Output adapter scraping the zona-style movie catalog
type CatalogClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewCatalogClient func - Creates new catalog client adapter
func NewCatalogClient(config configs.Catalog) *CatalogClient {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")

	timeout := time.Duration(config.FetchTimeout) * time.Second
	if config.FetchTimeout <= 0 {
		timeout = defaultFetchTimeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logrus.Infof("Catalog client initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return &CatalogClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Search - Fetches the catalog's results page and extracts records in catalog order.
// Transport failures and "zero matches" are both reported as an empty slice:
// the caller cannot and should not distinguish them.
func (c *CatalogClient) Search(ctx context.Context, query string) ([]*domain.FilmRecord, error) {
	searchURL := c.baseURL + "/search/" + url.PathEscape(query)

	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		logrus.Warnf("Catalog search fetch failed for %q: %v", query, err)
		return nil, nil
	}

	// The results marker distinguishes a results page from error/redirect pages
	if doc.Find("div.results-title").Length() == 0 {
		return nil, nil
	}

	var records []*domain.FilmRecord
	doc.Find("li.results-item-wrap").Each(func(_ int, card *goquery.Selection) {
		if rec := c.extractRecord(card); rec != nil {
			records = append(records, rec)
		}
	})

	logrus.Infof("Catalog search %q extracted %d records", query, len(records))
	return records, nil
}

// extractRecord parses one result entry tolerantly: missing sub-fields fall
// back to placeholders, only a missing link target skips the entry.
func (c *CatalogClient) extractRecord(card *goquery.Selection) *domain.FilmRecord {
	link := card.Find("a.results-item").First()
	if link.Length() == 0 {
		return nil
	}

	href, _ := link.Attr("href")
	if href == "" {
		return nil
	}

	title := strings.TrimSpace(link.Find("div.results-item-title").First().Text())
	if title == "" {
		title = domain.TitlePlaceholder
	}

	year := strings.TrimSpace(link.Find("span.results-item-year").First().Text())

	rating := strings.TrimSpace(link.Find("span.results-item-rating span").First().Text())
	if rating == "" {
		rating = "N/A"
	}

	return &domain.FilmRecord{
		Title:         title,
		Year:          year,
		CatalogRating: rating,
		PosterURL:     extractPoster(card, link),
		WatchLink:     c.baseURL + href,
	}
}

// extractPoster resolves the poster URL: structured image metadata first,
// then the inline background-image style, discarding the no-cover placeholder.
func extractPoster(card, link *goquery.Selection) string {
	if content, ok := card.Find(`meta[itemprop="image"]`).First().Attr("content"); ok && content != "" {
		return normalizePosterURL(content)
	}

	style, ok := link.Find("div.result-item-preview").First().Attr("style")
	if !ok {
		return ""
	}

	match := backgroundImageRe.FindStringSubmatch(style)
	if match == nil {
		return ""
	}

	poster := strings.Trim(match[1], `'" ,`)
	if poster == "" || poster == noCoverPath {
		return ""
	}

	return normalizePosterURL(poster)
}

// normalizePosterURL turns a protocol-relative URL into an explicit https one
func normalizePosterURL(poster string) string {
	if strings.HasPrefix(poster, "//") {
		return "https:" + poster
	}
	return poster
}

// Ratings - Fetches a record's detail page and extracts the Kinopoisk and IMDb
// values. Any failure degrades to the placeholder pair; the caller caches the
// result on the record so the fetch happens at most once per record.
func (c *CatalogClient) Ratings(ctx context.Context, watchLink string) (domain.Ratings, error) {
	if watchLink == "" {
		return domain.PlaceholderRatings, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchLink, nil)
	if err != nil {
		return domain.PlaceholderRatings, nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.Warnf("Rating fetch failed for %s: %v", watchLink, err)
		return domain.PlaceholderRatings, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PlaceholderRatings, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.PlaceholderRatings, nil
	}

	dd := doc.Find("dd.entity-desc-value.is-rating").First()
	if dd.Length() == 0 {
		return domain.PlaceholderRatings, nil
	}

	kp := strings.TrimSpace(dd.Find("span.entity-rating-kp").First().Text())
	if kp == "" {
		kp = domain.RatingPlaceholder
	}
	imdb := strings.TrimSpace(dd.Find("span.entity-rating-imdb").First().Text())
	if imdb == "" {
		imdb = domain.RatingPlaceholder
	}

	return domain.Ratings{Kinopoisk: kp, IMDb: imdb}, nil
}

// fetchDocument issues a GET with retries on transient failures and parses the body
func (c *CatalogClient) fetchDocument(ctx context.Context, fetchURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", userAgent)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("server error: status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("unexpected status %d", resp.StatusCode))
			}

			doc, err = goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(searchAttempts),
		retry.Delay(searchRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}
