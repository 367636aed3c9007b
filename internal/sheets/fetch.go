// Package sheets fetches spreadsheet URLs and parses them into row objects.
package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/intel-relay/internal/model"
)

// Options configures the sheet fetcher.
type Options struct {
	UserAgent    string
	Timeout      time.Duration // per-URL fetch timeout
	MaxParallel  int           // fan-out limit for FetchAll
	RateLimiters map[string]*rate.Limiter
}

// DefaultRateLimiters returns the per-host politeness limiters. Google export
// endpoints throttle aggressively, so keep the rate modest.
func DefaultRateLimiters() map[string]*rate.Limiter {
	return map[string]*rate.Limiter{
		"docs.google.com": rate.NewLimiter(5, 5),
	}
}

// Fetcher downloads and parses spreadsheets. All failures are captured in the
// returned SheetResult; Fetcher methods never return an error to the caller.
type Fetcher struct {
	client   *http.Client
	opts     Options
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxParallel == 0 {
		opts.MaxParallel = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "intel-relay/1.0"
	}
	limiters := opts.RateLimiters
	if limiters == nil {
		limiters = DefaultRateLimiters()
	}
	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: limiters,
	}
}

// FetchAndParse resolves one URL into a SheetResult. The result records the
// URL as originally found, not the rewritten export URL. Non-success status,
// network errors, and parse errors all become the result's Error field.
func (f *Fetcher) FetchAndParse(ctx context.Context, rawURL string) model.SheetResult {
	result := model.SheetResult{
		URL:      rawURL,
		Type:     Detect(rawURL),
		ParsedAt: time.Now().UTC(),
	}

	fetchURL := rawURL
	if result.Type == model.SheetTypeGoogleSheets {
		fetchURL = ExportURL(rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	if lim := f.limiterFor(fetchURL); lim != nil {
		if err := lim.Wait(ctx); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Error = fmt.Sprintf("Fetch failed: %s", resp.Status)
		return result
	}

	rows, err := parseBody(resp, result.Type, fetchURL)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Parsed = rows

	return result
}

// FetchAll fans out over urls concurrently and returns results in input
// order. One URL's failure never affects its siblings.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []model.SheetResult {
	results := make([]model.SheetResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.MaxParallel)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = f.FetchAndParse(gctx, u)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	for _, r := range results {
		if r.Error != "" {
			zap.L().Warn("sheet fetch failed",
				zap.String("url", r.URL),
				zap.String("type", string(r.Type)),
				zap.String("error", r.Error),
			)
		}
	}

	return results
}

// parseBody picks the parser: CSV when the response or URL says so,
// otherwise binary workbook.
func parseBody(resp *http.Response, typ model.SheetType, fetchURL string) ([]model.SheetRow, error) {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	lowerURL := strings.ToLower(fetchURL)

	asCSV := strings.Contains(contentType, "text/csv") ||
		typ == model.SheetTypeCSV ||
		strings.Contains(lowerURL, "format=csv")

	if asCSV {
		return parseCSV(resp.Body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseXLSX(data)
}

func (f *Fetcher) limiterFor(rawURL string) *rate.Limiter {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return f.limiters[u.Host]
}
