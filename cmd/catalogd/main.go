// Command catalogd performs one catalog sync run: it aggregates the
// store metadata sources, enriches the products with live stock data,
// and persists them to the configured sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aluiziolira/go-catalog-sync/config"
	"github.com/aluiziolira/go-catalog-sync/gateway"
	"github.com/aluiziolira/go-catalog-sync/pipeline"
	"github.com/aluiziolira/go-catalog-sync/titles"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("catalog sync failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		metadataURL = flag.String("metadata", "", "metadata service base URL")
		stockURL    = flag.String("stock", "", "stock service base URL")
		outputFile  = flag.String("out", "", "output file path")
		format      = flag.String("format", "", "output format: csv, json, dual, or postgres")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	if *metadataURL != "" {
		cfg.MetadataBaseURL = *metadataURL
	}
	if *stockURL != "" {
		cfg.StockBaseURL = *stockURL
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}
	if *verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Verbose)

	ctx := context.Background()

	client, err := gateway.NewClient(cfg)
	if err != nil {
		return err
	}

	normalizer, err := titles.Memoized(titles.Default{}, cfg.TitleCacheSize)
	if err != nil {
		return fmt.Errorf("build title cache: %w", err)
	}

	sink, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	fetcher := pipeline.NewFetcher(cfg, client, normalizer, sink)

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, client.Metrics.Registry, fetcher.Metrics.Registry)
	}

	result, err := fetcher.Run(ctx)
	if err != nil {
		return err
	}

	if result.Saved > 0 {
		if err := sink.Validate(); err != nil {
			return fmt.Errorf("validate sink output: %w", err)
		}
	}
	return nil
}

func newSink(ctx context.Context, cfg *config.Config) (pipeline.Sink, error) {
	switch cfg.OutputFormat {
	case "csv":
		return pipeline.NewCSVSink(cfg.OutputFile)
	case "json":
		return pipeline.NewJSONSink(cfg.OutputFile)
	case "dual":
		return pipeline.NewDualSink(cfg.OutputFile+".csv", cfg.OutputFile+".jsonl")
	case "postgres":
		return pipeline.NewPostgresSink(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func serveMetrics(addr string, registries ...*prometheus.Registry) {
	gatherers := make(prometheus.Gatherers, 0, len(registries))
	for _, r := range registries {
		gatherers = append(gatherers, r)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
}
