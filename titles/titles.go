// Package titles produces the canonical title/subtitle pair for each
// product type. Normalization is a pure function of the raw fields, so
// implementations must be safe for concurrent use.
package titles

import (
	"fmt"
	"strings"
)

// Pair is the canonical display pair shared by all product types.
type Pair struct {
	Title    string
	Subtitle string
}

// Normalizer derives the title/subtitle pair per product type.
type Normalizer interface {
	Book(title, kind, author string) Pair
	Film(productType, title, kind, director string, year int) Pair
	Vinyl(albumName, artistName string) Pair
}

// Default is the store's standard normalizer: books and vinyls carry
// the source title verbatim, film media append the release year.
type Default struct{}

func (Default) Book(title, kind, author string) Pair {
	return Pair{
		Title:    strings.TrimSpace(title),
		Subtitle: strings.TrimSpace(author),
	}
}

func (Default) Film(productType, title, kind, director string, year int) Pair {
	return Pair{
		Title:    fmt.Sprintf("%s (%d)", strings.TrimSpace(title), year),
		Subtitle: strings.TrimSpace(director),
	}
}

func (Default) Vinyl(albumName, artistName string) Pair {
	return Pair{
		Title:    strings.TrimSpace(albumName),
		Subtitle: strings.TrimSpace(artistName),
	}
}
