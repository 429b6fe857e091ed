package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/avicd/go-kifu/logger"
	"github.com/avicd/go-kifu/model"
	"github.com/go-resty/resty/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var log = logger.Scope("scraper")

var (
	ErrNotFound = errors.New("scraper: page not found")
	ErrStatus   = errors.New("scraper: unexpected status")
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	Retries      int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	// Cloudflare wraps the transport with browser like TLS and headers.
	Cloudflare bool
	Selectors  Selectors
	Cache      Cache
	CacheTTL   time.Duration
	Metrics    *Metrics
}

type Client struct {
	BaseURL   *url.URL
	Http      *resty.Client
	Selectors Selectors
	cache     Cache
	cacheTTL  time.Duration
	metrics   *Metrics
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("scraper: base url %q is not absolute", opts.BaseURL)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Selectors.PlayerPath == "" {
		opts.Selectors = DefaultSelectors()
	}

	client := resty.New()
	client.SetBaseURL(baseURL.String())
	if opts.Cloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseURL.Hostname()))
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	if opts.RetryWait > 0 {
		client.SetRetryWaitTime(opts.RetryWait)
	}
	if opts.RetryMaxWait > 0 {
		client.SetRetryMaxWaitTime(opts.RetryMaxWait)
	}
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		code := res.StatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	})

	return &Client{
		BaseURL:   baseURL,
		Http:      client,
		Selectors: opts.Selectors,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		metrics:   opts.Metrics,
	}, nil
}

func (it *Client) count(source, status string) {
	if it.metrics != nil {
		it.metrics.Fetches.WithLabelValues(source, status).Inc()
	}
}

// Body returns the page at path, from the cache when present.
func (it *Client) Body(ctx context.Context, path string) ([]byte, error) {
	key := it.BaseURL.String() + path
	if it.cache != nil {
		body, ok, err := it.cache.Get(ctx, key)
		if err != nil {
			log.Warnf("cache get %s: %v", key, err)
		} else if ok {
			it.count("cache", "ok")
			return body, nil
		}
	}

	started := time.Now()
	res, err := it.Http.R().
		SetContext(ctx).
		Get(path)
	if it.metrics != nil {
		it.metrics.Duration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		it.count("site", "error")
		return nil, fmt.Errorf("scraper: get %s: %w", path, err)
	}
	it.count("site", strconv.Itoa(res.StatusCode()))
	switch code := res.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case code < 200 || code >= 300:
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, code, path)
	}
	log.Debugf("fetched %s in %s", path, time.Since(started))

	body := res.Body()
	if it.cache != nil {
		if err := it.cache.Set(ctx, key, body, it.cacheTTL); err != nil {
			log.Warnf("cache set %s: %v", key, err)
		}
	}
	return body, nil
}

func (it *Client) Fetch(ctx context.Context, path string) (*goquery.Document, error) {
	body, err := it.Body(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse %s: %w", path, err)
	}
	ref, err := url.Parse(path)
	if err == nil {
		doc.Url = it.BaseURL.ResolveReference(ref)
	}
	return doc, nil
}

func (it *Client) FetchPlayer(ctx context.Context, id int64) (*model.PlayerPage, error) {
	doc, err := it.Fetch(ctx, it.Selectors.PlayerURL(id))
	if err != nil {
		return nil, err
	}
	return ParsePlayerPage(doc, it.Selectors, id)
}
