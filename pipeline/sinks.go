package pipeline

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/aluiziolira/go-catalog-sync/models"
)

// Sink durably stores enriched products, one at a time.
type Sink interface {
	Save(ctx context.Context, product *models.Product) error
	Close() error
	Validate() error
}

var csvHeader = []string{"id", "type", "title", "subtitle", "kind", "price", "quantity"}

// CSVSink appends products to a CSV file.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVSink initialises a CSV sink and writes the header row.
func NewCSVSink(filename string) (*CSVSink, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVSink{
		file:   f,
		writer: writer,
	}, nil
}

// Save appends one product row to the CSV output.
func (cs *CSVSink) Save(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	record := []string{
		product.ID,
		product.Type,
		product.Title,
		product.Subtitle,
		product.Kind,
		strconv.FormatFloat(product.Price, 'f', -1, 64),
		strconv.Itoa(product.Quantity),
	}
	if err := cs.writer.Write(record); err != nil {
		return fmt.Errorf("write csv record: %w", err)
	}
	cs.writer.Flush()
	if err := cs.writer.Error(); err != nil {
		return fmt.Errorf("flush csv record: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cs *CSVSink) Close() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.writer.Flush()
	if err := cs.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cs.file.Close()
}

// Validate ensures the file has content besides the header.
func (cs *CSVSink) Validate() error {
	info, err := cs.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONSink writes newline-delimited JSON records.
type JSONSink struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONSink initialises the JSONL sink.
func NewJSONSink(filename string) (*JSONSink, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONSink{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Save appends one product in JSONL format.
func (js *JSONSink) Save(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	js.mu.Lock()
	defer js.mu.Unlock()

	if err := js.encoder.Encode(product); err != nil {
		return fmt.Errorf("encode json record: %w", err)
	}
	if err := js.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (js *JSONSink) Close() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if err := js.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return js.file.Close()
}

// Validate ensures the JSON file has data.
func (js *JSONSink) Validate() error {
	info, err := js.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

// DualSink persists to CSV and JSONL simultaneously.
type DualSink struct {
	csvSink  *CSVSink
	jsonSink *JSONSink
	mu       sync.Mutex
}

// NewDualSink creates a sink writing both output formats.
func NewDualSink(csvFilename, jsonFilename string) (*DualSink, error) {
	csvSink, err := NewCSVSink(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create csv sink: %w", err)
	}

	jsonSink, err := NewJSONSink(jsonFilename)
	if err != nil {
		csvSink.Close()
		return nil, fmt.Errorf("create json sink: %w", err)
	}

	return &DualSink{
		csvSink:  csvSink,
		jsonSink: jsonSink,
	}, nil
}

// Save writes the product to both outputs.
func (ds *DualSink) Save(ctx context.Context, product *models.Product) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.csvSink.Save(ctx, product); err != nil {
		return fmt.Errorf("csv save failed: %w", err)
	}
	if err := ds.jsonSink.Save(ctx, product); err != nil {
		return fmt.Errorf("json save failed: %w", err)
	}
	return nil
}

// Close closes both sinks.
func (ds *DualSink) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	var errs []error
	if err := ds.csvSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("csv close failed: %w", err))
	}
	if err := ds.jsonSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("json close failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both output files.
func (ds *DualSink) Validate() error {
	var errs []error
	if err := ds.csvSink.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("csv validation failed: %w", err))
	}
	if err := ds.jsonSink.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("json validation failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
