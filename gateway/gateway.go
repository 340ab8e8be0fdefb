// Package gateway is the single owner of upstream HTTP access: one
// fetch operation per metadata source plus the per-product stock
// lookup, with all network error classification in one place.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aluiziolira/go-catalog-sync/config"
	"github.com/aluiziolira/go-catalog-sync/models"
	"golang.org/x/time/rate"
)

// Source names, used for metrics labels and logging.
const (
	SourceBooks     = "books"
	SourceDVDs      = "dvds"
	SourceBluRays   = "bluerays"
	SourceVinyls    = "vinyls"
	SourceBlacklist = "blacklist"
	SourceStock     = "stock"
)

const (
	labelDefault   = "Error"
	labelBlacklist = "Blacklist Error"
)

// Client issues requests against the metadata and stock services.
// Every operation performs exactly one request; there are no retries,
// and the first failure is final.
type Client struct {
	cfg     *config.Config
	http    *http.Client
	limiter *rate.Limiter
	Metrics *Metrics
}

// NewClient builds a gateway client configured from cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	for _, base := range []string{cfg.MetadataBaseURL, cfg.StockBaseURL} {
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("base url %q must include a host", base)
		}
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter: limiter,
		Metrics: NewMetrics(),
	}, nil
}

// SetTransport swaps the underlying round tripper. Intended for tests
// that stub upstream responses.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.http.Transport = rt
}

// Books fetches the raw book list from the metadata service.
func (c *Client) Books(ctx context.Context) ([]models.RawBook, error) {
	var out []models.RawBook
	if err := c.get(ctx, SourceBooks, c.cfg.MetadataBaseURL+"/books", labelDefault, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DVDs fetches the raw dvd list from the metadata service.
func (c *Client) DVDs(ctx context.Context) ([]models.RawFilm, error) {
	var out []models.RawFilm
	if err := c.get(ctx, SourceDVDs, c.cfg.MetadataBaseURL+"/dvds", labelDefault, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BluRays fetches the raw blu-ray list from the metadata service.
func (c *Client) BluRays(ctx context.Context) ([]models.RawFilm, error) {
	var out []models.RawFilm
	if err := c.get(ctx, SourceBluRays, c.cfg.MetadataBaseURL+"/bluerays", labelDefault, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Vinyls fetches the raw vinyl list from the metadata service.
func (c *Client) Vinyls(ctx context.Context) ([]models.RawVinyl, error) {
	var out []models.RawVinyl
	if err := c.get(ctx, SourceVinyls, c.cfg.MetadataBaseURL+"/vinyls", labelDefault, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Blacklist fetches the blacklisted product ids.
func (c *Client) Blacklist(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, SourceBlacklist, c.cfg.MetadataBaseURL+"/blacklist", labelBlacklist, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stock fetches the live stock quote for one product id.
func (c *Client) Stock(ctx context.Context, id string) (models.StockQuote, error) {
	var out models.StockQuote
	u := c.cfg.StockBaseURL + "/item/" + url.PathEscape(id)
	if err := c.get(ctx, SourceStock, u, labelDefault, &out); err != nil {
		return models.StockQuote{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, source, rawURL, label string, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return TransportError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.Metrics.IncRequest(source)
	start := time.Now()

	resp, err := c.http.Do(req)
	c.Metrics.ObserveDuration(time.Since(start))
	if err != nil {
		classified := TransportError{Err: err}
		c.observeFailure(source, rawURL, classified)
		return classified
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		classified := UpstreamError{Status: resp.StatusCode, Label: label}
		c.observeFailure(source, rawURL, classified)
		return classified
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	return nil
}

func (c *Client) observeFailure(source, rawURL string, err error) {
	class := errorClassLabel(err)
	c.Metrics.IncError(class)
	slog.Error("upstream request failed",
		slog.String("source", source),
		slog.String("url", rawURL),
		slog.String("class", class),
		slog.Any("error", err),
	)
}
