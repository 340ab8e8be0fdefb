package gateway

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/aluiziolira/go-catalog-sync/config"
	"github.com/aluiziolira/go-catalog-sync/models"
	"github.com/jarcoal/httpmock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MetadataBaseURL = "http://metadata.test"
	cfg.StockBaseURL = "http://stock.test"
	cfg.Timeout = time.Second
	return cfg
}

func newTestClient(t *testing.T, transport *httpmock.MockTransport) *Client {
	t.Helper()
	client, err := NewClient(testConfig())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.SetTransport(transport)
	return client
}

func TestBooksDecodesResponse(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://metadata.test/books",
		httpmock.NewJsonResponderOrPanic(200, []models.RawBook{
			{ID: "123", Title: "raw title", Genre: "fiction", Author: "someone"},
		}))

	client := newTestClient(t, transport)

	books, err := client.Books(context.Background())
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("books=%d, want 1", len(books))
	}
	if books[0].ID != "123" || books[0].Author != "someone" {
		t.Fatalf("unexpected book: %+v", books[0])
	}
}

func TestStockDecodesResponse(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://stock.test/item/123",
		httpmock.NewJsonResponderOrPanic(200, models.StockQuote{ID: "123", Price: 12.0, Quantity: 1}))

	client := newTestClient(t, transport)

	quote, err := client.Stock(context.Background(), "123")
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if quote.Price != 12.0 || quote.Quantity != 1 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestUpstreamErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		status  int
		call    func(*Client) error
		wantMsg string
	}{
		{
			name:   "books",
			url:    "http://metadata.test/books",
			status: 500,
			call: func(c *Client) error {
				_, err := c.Books(context.Background())
				return err
			},
			wantMsg: "Error: 500",
		},
		{
			name:   "vinyls",
			url:    "http://metadata.test/vinyls",
			status: 404,
			call: func(c *Client) error {
				_, err := c.Vinyls(context.Background())
				return err
			},
			wantMsg: "Error: 404",
		},
		{
			name:   "blacklist",
			url:    "http://metadata.test/blacklist",
			status: 503,
			call: func(c *Client) error {
				_, err := c.Blacklist(context.Background())
				return err
			},
			wantMsg: "Blacklist Error: 503",
		},
		{
			name:   "stock",
			url:    "http://stock.test/item/99",
			status: 500,
			call: func(c *Client) error {
				_, err := c.Stock(context.Background(), "99")
				return err
			},
			wantMsg: "Error: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			transport.RegisterResponder("GET", tt.url, httpmock.NewStringResponder(tt.status, ""))

			client := newTestClient(t, transport)

			err := tt.call(client)
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("message=%q, want %q", err.Error(), tt.wantMsg)
			}

			var upstream UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %T", err)
			}
			if upstream.Status != tt.status {
				t.Fatalf("status=%d, want %d", upstream.Status, tt.status)
			}
		})
	}
}

func TestTransportFailureClassified(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://metadata.test/dvds",
		httpmock.NewErrorResponder(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))

	client := newTestClient(t, transport)

	_, err := client.DVDs(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}

	var transportErr TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T", err)
	}
	if transportErr.Unwrap() == nil {
		t.Fatalf("transport error should carry the underlying cause")
	}
}

func TestErrorClassLabel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: "unknown"},
		{name: "transport", err: TransportError{Err: errors.New("refused")}, expected: "transport"},
		{name: "upstream", err: UpstreamError{Status: 500, Label: "Error"}, expected: "upstream"},
		{name: "other", err: errors.New("some other error"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorClassLabel(tt.err); got != tt.expected {
				t.Fatalf("errorClassLabel(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRequestsCounted(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://metadata.test/bluerays",
		httpmock.NewJsonResponderOrPanic(200, []models.RawFilm{}))

	client := newTestClient(t, transport)

	if _, err := client.BluRays(context.Background()); err != nil {
		t.Fatalf("bluerays: %v", err)
	}
	if got := transport.GetCallCountInfo()["GET http://metadata.test/bluerays"]; got != 1 {
		t.Fatalf("call count=%d, want 1", got)
	}
}
