// Package pipeline orchestrates one catalog sync run: fetch metadata,
// convert, filter, enrich with stock, persist. Stages run strictly in
// sequence; concurrency lives inside the two fetch stages only.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-catalog-sync/config"
	"github.com/aluiziolira/go-catalog-sync/convert"
	"github.com/aluiziolira/go-catalog-sync/models"
	"github.com/aluiziolira/go-catalog-sync/titles"
	"golang.org/x/sync/errgroup"
)

// Gateway is the upstream access surface the pipeline needs.
type Gateway interface {
	Books(ctx context.Context) ([]models.RawBook, error)
	DVDs(ctx context.Context) ([]models.RawFilm, error)
	BluRays(ctx context.Context) ([]models.RawFilm, error)
	Vinyls(ctx context.Context) ([]models.RawVinyl, error)
	Blacklist(ctx context.Context) ([]string, error)
	Stock(ctx context.Context, id string) (models.StockQuote, error)
}

// Fetcher runs the fetch-convert-filter-enrich-persist pipeline.
type Fetcher struct {
	cfg        *config.Config
	gateway    Gateway
	normalizer titles.Normalizer
	sink       Sink
	Metrics    *Metrics
}

// NewFetcher wires a pipeline from its collaborators.
func NewFetcher(cfg *config.Config, gw Gateway, normalizer titles.Normalizer, sink Sink) *Fetcher {
	return &Fetcher{
		cfg:        cfg,
		gateway:    gw,
		normalizer: normalizer,
		sink:       sink,
		Metrics:    NewMetrics(),
	}
}

// Run executes one full pipeline run. The first error from any stage
// aborts the run; products saved before a sink failure stay saved.
func (f *Fetcher) Run(ctx context.Context) (*models.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	result, err := f.run(ctx, start)
	if err != nil {
		f.Metrics.incRun("failure")
		return nil, err
	}

	f.Metrics.incRun("success")
	slog.Info("catalog sync complete",
		slog.Int("fetched", result.Fetched),
		slog.Int("blacklisted", result.Blacklisted),
		slog.Int("saved", result.Saved),
		slog.Duration("elapsed", result.EndTime.Sub(result.StartTime)),
	)
	return result, nil
}

// Fetch preserves the original single-callback entry point: cb receives
// nil once every product is saved, or the first error encountered.
func (f *Fetcher) Fetch(cb func(error)) {
	_, err := f.Run(context.Background())
	cb(err)
}

func (f *Fetcher) run(ctx context.Context, start time.Time) (*models.RunResult, error) {
	catalog, blacklist, err := f.fetchMetadata(ctx)
	if err != nil {
		return nil, err
	}

	products := convert.All(catalog, f.normalizer)
	f.Metrics.addConverted(len(products))

	kept := convert.FilterBlacklist(products, blacklist)
	f.Metrics.addBlacklisted(len(products) - len(kept))

	quotes, err := f.fetchStocks(ctx, kept)
	if err != nil {
		return nil, err
	}

	// Positional merge: the i-th quote belongs to the i-th product.
	for i, p := range kept {
		p.Price = quotes[i].Price
		p.Quantity = quotes[i].Quantity
	}

	saved := 0
	for _, p := range kept {
		if err := f.sink.Save(ctx, p); err != nil {
			slog.Error("sink save failed",
				slog.String("id", p.ID),
				slog.Int("saved_before_failure", saved),
				slog.Any("error", err),
			)
			return nil, err
		}
		saved++
		f.Metrics.incSaved()
	}

	return &models.RunResult{
		StartTime:   start,
		EndTime:     time.Now(),
		Fetched:     catalog.Len(),
		Converted:   len(products),
		Blacklisted: len(products) - len(kept),
		Saved:       saved,
	}, nil
}

// fetchMetadata issues the four catalog fetches and the blacklist fetch
// concurrently and joins before any result is read. The group carries
// no derived context: a failing sibling does not cancel the others,
// their results are simply discarded.
func (f *Fetcher) fetchMetadata(ctx context.Context) (models.RawCatalog, []string, error) {
	var (
		catalog   models.RawCatalog
		blacklist []string
		g         errgroup.Group
	)

	g.Go(func() error {
		var err error
		catalog.Books, err = f.gateway.Books(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog.DVDs, err = f.gateway.DVDs(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog.BluRays, err = f.gateway.BluRays(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog.Vinyls, err = f.gateway.Vinyls(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		blacklist, err = f.gateway.Blacklist(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.RawCatalog{}, nil, err
	}
	return catalog, blacklist, nil
}

// fetchStocks issues one stock fetch per product, at most
// StockConcurrency in flight, writing each quote into its product's
// index slot so the merge order never depends on completion order.
func (f *Fetcher) fetchStocks(ctx context.Context, products []*models.Product) ([]models.StockQuote, error) {
	quotes := make([]models.StockQuote, len(products))

	var g errgroup.Group
	g.SetLimit(f.cfg.StockConcurrency)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			quote, err := f.gateway.Stock(ctx, p.ID)
			if err != nil {
				return err
			}
			quotes[i] = quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}
