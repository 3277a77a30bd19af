package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pitquant/fundcore/pkg/httputil"
	"github.com/pitquant/fundcore/pkg/logger"
	"github.com/pitquant/fundcore/pkg/redis"
)

// FilingRef points at one filing in an EDGAR index page. It carries
// enough to decide whether the filing is interesting and where the
// documents live; the statement payload is fetched separately.
type FilingRef struct {
	CIK         string    `json:"cik"`
	Company     string    `json:"company"`
	FormType    string    `json:"form_type"`
	FiledDate   time.Time `json:"filed_date"`
	DocumentURL string    `json:"document_url"`
}

// Client handles communication with the SEC EDGAR system. All EDGAR
// requests go through the shared rate-limited HTTP client; the SEC
// enforces roughly ten requests per second per requester.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new EDGAR client
func NewClient(httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.sec.gov"
	}
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// interesting form types: periodic reports and their amendments
var formTypeRe = regexp.MustCompile(`^10-[KQ](/A)?$|^20-F(/A)?$|^40-F(/A)?$`)

// FetchDailyIndex fetches the filing index for one day. Results are
// cached: the current day's page changes until the close of filing,
// older pages are immutable.
func (c *Client) FetchDailyIndex(ctx context.Context, date time.Time) ([]FilingRef, error) {
	dateStr := date.Format("2006-01-02")
	cacheKey := redis.DailyIndexKey(dateStr)

	var cached []FilingRef
	hit, err := c.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		c.logger.WithError(err).Warn("EDGAR index cache read failed")
	}
	if hit {
		return cached, nil
	}

	url := fmt.Sprintf("%s/cgi-bin/browse-edgar?action=getcurrent&type=10&dateb=%s&owner=include&count=400&output=html",
		c.baseURL, date.Format("20060102"))

	html, err := c.fetchHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch daily index for %s: %w", dateStr, err)
	}

	refs, err := parseDailyIndex(html, date)
	if err != nil {
		return nil, fmt.Errorf("parse daily index for %s: %w", dateStr, err)
	}

	ttl := redis.TTLIndex
	if time.Since(date) > 48*time.Hour {
		ttl = redis.TTLArchive
	}
	if err := c.cache.Set(ctx, cacheKey, refs, ttl); err != nil {
		c.logger.WithError(err).Warn("EDGAR index cache write failed")
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  dateStr,
		"count": len(refs),
	}).Debug("Fetched EDGAR daily index")

	return refs, nil
}

// fetchHTML fetches an HTML page from EDGAR
func (c *Client) fetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

var cikRe = regexp.MustCompile(`^\d{1,10}$`)

// parseDailyIndex parses an EDGAR index HTML page into filing
// references. Rows that are not periodic reports are dropped.
func parseDailyIndex(html string, date time.Time) ([]FilingRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var refs []FilingRef

	// Index structure: one table row per filing
	// Columns: CIK | Company | Form Type | Date Filed, link on the CIK cell
	doc.Find("table.tableFile2 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		cik := strings.TrimSpace(cells.Eq(0).Text())
		if !cikRe.MatchString(cik) {
			return
		}

		form := strings.TrimSpace(cells.Eq(2).Text())
		if !formTypeRe.MatchString(form) {
			return
		}

		filedDate := date
		if parsed, perr := time.Parse("2006-01-02", strings.TrimSpace(cells.Eq(3).Text())); perr == nil {
			filedDate = parsed
		}

		docURL, _ := cells.Eq(0).Find("a").First().Attr("href")

		refs = append(refs, FilingRef{
			CIK:         cik,
			Company:     strings.TrimSpace(cells.Eq(1).Text()),
			FormType:    form,
			FiledDate:   filedDate,
			DocumentURL: docURL,
		})
	})

	return refs, nil
}

// FetchIndexRange fetches daily indexes over [from, to], skipping
// weekends. EDGAR publishes no index for non-business days.
func (c *Client) FetchIndexRange(ctx context.Context, from, to time.Time) ([]FilingRef, error) {
	var all []FilingRef

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		refs, err := c.FetchDailyIndex(ctx, d)
		if err != nil {
			return all, err
		}
		all = append(all, refs...)
	}

	return all, nil
}
