// Package convert maps raw upstream records into canonical products.
// The product type set is closed: one pure converter per type, applied
// in the fixed catalog order (books, dvds, blu-rays, vinyls).
package convert

import (
	"time"

	"github.com/aluiziolira/go-catalog-sync/models"
	"github.com/aluiziolira/go-catalog-sync/titles"
)

// Release dates arrive as "10-02-2007" (month-day-year); ISO dates show
// up from some feeds, so both layouts are tried.
var releaseDateLayouts = []string{"01-02-2006", "2006-01-02"}

// ToBook converts a raw book record.
func ToBook(raw models.RawBook, n titles.Normalizer) *models.Product {
	pair := n.Book(raw.Title, raw.Genre, raw.Author)
	return &models.Product{
		ID:       raw.ID,
		Type:     models.TypeBook,
		Title:    pair.Title,
		Subtitle: pair.Subtitle,
		Kind:     raw.Genre,
	}
}

// ToDVD converts a raw dvd record.
func ToDVD(raw models.RawFilm, n titles.Normalizer) *models.Product {
	return toFilm(models.TypeDVD, raw, n)
}

// ToBluRay converts a raw blu-ray record.
func ToBluRay(raw models.RawFilm, n titles.Normalizer) *models.Product {
	return toFilm(models.TypeBluRay, raw, n)
}

func toFilm(productType string, raw models.RawFilm, n titles.Normalizer) *models.Product {
	pair := n.Film(productType, raw.Title, raw.Genre, raw.Director, ReleaseYear(raw.ReleaseDate))
	return &models.Product{
		ID:       raw.ID,
		Type:     productType,
		Title:    pair.Title,
		Subtitle: pair.Subtitle,
		Kind:     raw.Genre,
	}
}

// ToVinyl converts a raw vinyl record. Vinyls carry no genre, so Kind
// stays empty.
func ToVinyl(raw models.RawVinyl, n titles.Normalizer) *models.Product {
	pair := n.Vinyl(raw.AlbumName, raw.ArtistName)
	return &models.Product{
		ID:       raw.ID,
		Type:     models.TypeVinyl,
		Title:    pair.Title,
		Subtitle: pair.Subtitle,
	}
}

// ReleaseYear extracts the calendar year from a raw release date.
// Unparseable dates yield 0; the value passes through into the title
// untouched, matching the upstream feed's behavior.
func ReleaseYear(raw string) int {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Year()
		}
	}
	return 0
}

// All converts a full raw catalog into a flat product sequence,
// preserving the catalog's type order and the order within each list.
func All(catalog models.RawCatalog, n titles.Normalizer) []*models.Product {
	out := make([]*models.Product, 0, catalog.Len())
	for _, raw := range catalog.Books {
		out = append(out, ToBook(raw, n))
	}
	for _, raw := range catalog.DVDs {
		out = append(out, ToDVD(raw, n))
	}
	for _, raw := range catalog.BluRays {
		out = append(out, ToBluRay(raw, n))
	}
	for _, raw := range catalog.Vinyls {
		out = append(out, ToVinyl(raw, n))
	}
	return out
}

// FilterBlacklist drops every product whose id is blacklisted,
// preserving the order of the remainder. An empty blacklist is a no-op.
func FilterBlacklist(products []*models.Product, blacklist []string) []*models.Product {
	if len(blacklist) == 0 {
		return products
	}
	blocked := make(map[string]struct{}, len(blacklist))
	for _, id := range blacklist {
		blocked[id] = struct{}{}
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if _, ok := blocked[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
