// Package models defines the raw upstream records and the canonical
// product shape shared by the pipeline stages.
package models

import "time"

// Product types as they appear in the canonical output.
const (
	TypeBook   = "book"
	TypeDVD    = "dvd"
	TypeBluRay = "blu-ray"
	TypeVinyl  = "vinyl-record"
)

// RawBook is a book record as returned by the metadata service.
type RawBook struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Author      string `json:"author"`
	ISBN10      string `json:"isbn10"`
	ISBN13      string `json:"isbn13"`
	ReleaseDate string `json:"releaseDate"`
}

// RawFilm is a dvd or blu-ray record; both sources share one shape.
type RawFilm struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director"`
	Credits     []string `json:"credits"`
	ReleaseDate string   `json:"releaseDate"`
}

// RawVinyl is a vinyl record entry from the metadata service.
type RawVinyl struct {
	ID         string `json:"id"`
	AlbumName  string `json:"albumName"`
	ArtistName string `json:"artistName"`
}

// RawCatalog bundles the four metadata lists of a single run.
type RawCatalog struct {
	Books   []RawBook
	DVDs    []RawFilm
	BluRays []RawFilm
	Vinyls  []RawVinyl
}

// Len returns the total number of raw records across all lists.
func (c RawCatalog) Len() int {
	return len(c.Books) + len(c.DVDs) + len(c.BluRays) + len(c.Vinyls)
}

// StockQuote is the stock service response for a single product.
type StockQuote struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Product is the canonical shape every raw record converts into.
// Kind is empty for vinyl records; Price and Quantity are zero until
// the enrichment stage merges a stock quote in.
type Product struct {
	ID       string  `csv:"id" json:"id"`
	Type     string  `csv:"type" json:"type"`
	Title    string  `csv:"title" json:"title"`
	Subtitle string  `csv:"subtitle" json:"subtitle"`
	Kind     string  `csv:"kind" json:"kind,omitempty"`
	Price    float64 `csv:"price" json:"price"`
	Quantity int     `csv:"quantity" json:"quantity"`
}

// RunResult summarises a completed pipeline run.
type RunResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Fetched     int
	Converted   int
	Blacklisted int
	Saved       int
}
