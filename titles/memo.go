package titles

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memoizing wraps a Normalizer with a fixed-size LRU cache. Catalog
// feeds repeat the same raw fields across sources, and normalization
// is pure, so cached pairs are always valid.
type Memoizing struct {
	inner Normalizer
	cache *lru.Cache[string, Pair]
}

// Memoized puts inner behind an LRU of the given size. A size of zero
// disables caching and returns inner unchanged.
func Memoized(inner Normalizer, size int) (Normalizer, error) {
	if size == 0 {
		return inner, nil
	}
	cache, err := lru.New[string, Pair](size)
	if err != nil {
		return nil, err
	}
	return &Memoizing{inner: inner, cache: cache}, nil
}

func (m *Memoizing) Book(title, kind, author string) Pair {
	key := cacheKey("book", title, kind, author)
	if pair, ok := m.cache.Get(key); ok {
		return pair
	}
	pair := m.inner.Book(title, kind, author)
	m.cache.Add(key, pair)
	return pair
}

func (m *Memoizing) Film(productType, title, kind, director string, year int) Pair {
	key := cacheKey(productType, title, kind, director, strconv.Itoa(year))
	if pair, ok := m.cache.Get(key); ok {
		return pair
	}
	pair := m.inner.Film(productType, title, kind, director, year)
	m.cache.Add(key, pair)
	return pair
}

func (m *Memoizing) Vinyl(albumName, artistName string) Pair {
	key := cacheKey("vinyl-record", albumName, artistName)
	if pair, ok := m.cache.Get(key); ok {
		return pair
	}
	pair := m.inner.Vinyl(albumName, artistName)
	m.cache.Add(key, pair)
	return pair
}

// Len reports how many pairs are currently cached.
func (m *Memoizing) Len() int {
	return m.cache.Len()
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x1f")
}
