package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/resilience"
	"github.com/sells-group/directory-cli/internal/scrape"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// DefaultUserAgent identifies the indexer to site operators.
const DefaultUserAgent = "Mozilla/5.0 (compatible; Directory-Indexer/1.0; +https://github.com/sells-group/directory-cli)"

// Options configures the HTTP fetcher.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// MaxAttempts bounds tries per URL, including the first.
	MaxAttempts int
	// BackoffStep is the linear backoff increment: step, 2*step, ...
	BackoffStep time.Duration
	// PolitenessDelay is the minimum gap between the end of one request and
	// the start of the next.
	PolitenessDelay time.Duration
	// Gate, when set, replaces the fetcher's own gate so several fetchers
	// share one politeness budget. PolitenessDelay is then ignored.
	Gate *Gate
	CacheMaxEntries int
	MaxBodyBytes    int64
	// Headers are added to the fixed header set.
	Headers map[string]string
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 25 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BackoffStep <= 0 {
		o.BackoffStep = time.Second
	}
	if o.CacheMaxEntries < 0 {
		o.CacheMaxEntries = 0
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 4 << 20
	}
	return o
}

// HTTPFetcher implements Fetcher with a politeness gate, linear retries,
// charset normalization and a per-run FIFO page cache. One HTTPFetcher lives
// for one run.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	gate    *Gate
	cache   *pageCache
	headers http.Header
}

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	opts = opts.withDefaults()

	gate := opts.Gate
	if gate == nil {
		gate = NewGate(opts.PolitenessDelay)
	}

	headers := http.Header{}
	headers.Set("User-Agent", opts.UserAgent)
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	headers.Set("Accept-Language", "en-CA,en;q=0.9,fr-CA;q=0.8,fr;q=0.7")
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		gate:    gate,
		cache:   newPageCache(opts.CacheMaxEntries),
		headers: headers,
	}
}

// Fetch returns the page at rawURL. Cache hits skip the network and the
// politeness gate; every network attempt, retries included, passes it.
// Failures surviving all retries are returned as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	key := weblink.Normalize(rawURL)
	if p, ok := f.cache.get(key); ok {
		p.FromCache = true
		return &p, nil
	}

	attempts := 0
	cfg := resilience.RetryConfig{
		MaxAttempts:    f.opts.MaxAttempts,
		InitialBackoff: f.opts.BackoffStep,
		MaxBackoff:     time.Duration(f.opts.MaxAttempts) * f.opts.BackoffStep,
		Strategy:       resilience.BackoffLinear,
		OnRetry:        resilience.RetryLogger("fetch", rawURL),
	}
	page, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*Page, error) {
		attempts++
		return f.do(ctx, rawURL)
	})
	if err != nil {
		fe := &FetchError{URL: rawURL, Attempts: attempts, Err: err}
		var te *resilience.TransientError
		var se *statusError
		switch {
		case errors.As(err, &te):
			fe.StatusCode = te.StatusCode
		case errors.As(err, &se):
			fe.StatusCode = se.status
		}
		return nil, fe
	}

	f.cache.put(key, *page)
	if final := weblink.Normalize(page.FinalURL); final != key {
		f.cache.put(final, *page)
	}
	zap.L().Debug("fetched page",
		zap.String("url", rawURL),
		zap.String("final_url", page.FinalURL),
		zap.Int("status", page.Status),
		zap.Int("attempts", attempts),
	)
	return page, nil
}

// statusError is a non-retryable HTTP status.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d", e.status)
}

func (f *HTTPFetcher) do(ctx context.Context, rawURL string) (*Page, error) {
	release, err := f.gate.Acquire(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: politeness wait")
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: do request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "fetcher: read body"), resp.StatusCode)
	}

	if blocked, kind := scrape.DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("fetcher: blocked by %s protection", kind)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("fetcher: status %d", resp.StatusCode), resp.StatusCode)
		}
		return nil, &statusError{status: resp.StatusCode}
	}

	text, err := decodeBody(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return &Page{
		HTML:     text,
		FinalURL: resp.Request.URL.String(),
		Status:   resp.StatusCode,
	}, nil
}
