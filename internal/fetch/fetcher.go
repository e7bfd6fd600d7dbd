// Package fetch retrieves judgment HTML for cases that carry no local
// text. Fetching is polite: robots.txt is honored, requests are rate
// limited per domain with a jittered delay, bodies are cached keyed by
// URL, and transient failures get one bounded retry.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/courtfirst/breachminer/internal/cache"
	"github.com/courtfirst/breachminer/internal/model"
	"github.com/courtfirst/breachminer/internal/worker"
)

// maxAttempts bounds retries: the first attempt plus one retry for
// network errors and 5xx responses. 4xx responses fail immediately.
const maxAttempts = 2

// fetchSleepFunc is overridable in tests to skip retry backoff.
var fetchSleepFunc = time.Sleep

// Client fetches judgment pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	cache    cache.Cache
	cacheTTL time.Duration

	robots  *RobotsChecker // nil when robots checking is disabled
	limiter *worker.Limiter
	delay   time.Duration
	jitter  time.Duration
}

// Result contains a fetched (or cached) judgment body.
type Result struct {
	Body       []byte
	FinalURL   string
	StatusCode int
	Cached     bool
}

// NewClient builds a fetch client from configuration. Pass cache.Nop{}
// to disable caching.
func NewClient(cfg *model.Config, store cache.Cache) *Client {
	transport := &http.Transport{
		Proxy: NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var robots *RobotsChecker
	if cfg.Politeness.RespectRobots {
		robots = NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		cache:     store,
		cacheTTL:  cfg.Cache.DiskTTL,
		robots:    robots,
		limiter:   worker.NewLimiter(cfg.Politeness.RequestsPerSecond, cfg.Politeness.Burst),
		delay:     cfg.Politeness.Delay,
		jitter:    cfg.Politeness.Jitter,
	}
}

// FetchCase retrieves the judgment body for a case's source URL. Cache
// hits skip the network entirely, including the politeness delay. All
// failures come back as *model.FetchError so the pipeline can continue
// with the remaining cases.
func (c *Client) FetchCase(ctx context.Context, cs model.Case) (*Result, error) {
	url := cs.SourceURL
	key := cache.Key(url)

	if body, found := c.cache.Get(key); found {
		// Only successful fetches are cached, so the original status was
		// 2xx; report 200 rather than leaving the audit log statusless.
		return &Result{Body: body, FinalURL: url, StatusCode: http.StatusOK, Cached: true}, nil
	}

	if c.robots != nil && !c.robots.IsAllowed(ctx, url) {
		return nil, &model.FetchError{
			CaseID: cs.CaseID,
			URL:    url,
			Err:    fmt.Errorf("disallowed by robots.txt"),
		}
	}

	if err := c.limiter.WaitWithDelay(ctx, url, c.politenessDelay()); err != nil {
		return nil, &model.FetchError{CaseID: cs.CaseID, URL: url, Err: err}
	}

	var lastErr *model.FetchError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			fetchSleepFunc(time.Duration(attempt) * time.Second)
		}

		res, ferr := c.doFetch(ctx, cs, url)
		if ferr == nil {
			_ = c.cache.Set(key, res.Body, c.cacheTTL)
			return res, nil
		}

		lastErr = ferr
		if !retryable(ferr) {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) doFetch(ctx context.Context, cs model.Case, url string) (*Result, *model.FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &model.FetchError{CaseID: cs.CaseID, URL: url, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.FetchError{CaseID: cs.CaseID, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.FetchError{
			CaseID:     cs.CaseID,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, &model.FetchError{CaseID: cs.CaseID, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return &Result{
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}, nil
}

// politenessDelay returns the fixed delay plus random jitter applied
// before each network request.
func (c *Client) politenessDelay() time.Duration {
	d := c.delay
	if c.jitter > 0 {
		d += time.Duration(rand.Int63n(int64(c.jitter)))
	}
	return d
}

// retryable reports whether a fetch failure is worth a second attempt:
// network errors and server-side (5xx) statuses only.
func retryable(e *model.FetchError) bool {
	if e.StatusCode == 0 {
		if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
			return false
		}
		return true
	}
	return e.StatusCode >= 500
}
