package titles

import "testing"

func TestDefaultBook(t *testing.T) {
	pair := Default{}.Book("raw title", "fiction", "someone")
	if pair.Title != "raw title" {
		t.Fatalf("title=%q, want %q", pair.Title, "raw title")
	}
	if pair.Subtitle != "someone" {
		t.Fatalf("subtitle=%q, want %q", pair.Subtitle, "someone")
	}
}

func TestDefaultFilmAppendsYear(t *testing.T) {
	pair := Default{}.Film("dvd", "dvd title", "film", "some director", 2007)
	if pair.Title != "dvd title (2007)" {
		t.Fatalf("title=%q, want %q", pair.Title, "dvd title (2007)")
	}
	if pair.Subtitle != "some director" {
		t.Fatalf("subtitle=%q, want %q", pair.Subtitle, "some director")
	}
}

func TestDefaultVinyl(t *testing.T) {
	pair := Default{}.Vinyl("Master of puppets", "metallica")
	if pair.Title != "Master of puppets" {
		t.Fatalf("title=%q, want %q", pair.Title, "Master of puppets")
	}
	if pair.Subtitle != "metallica" {
		t.Fatalf("subtitle=%q, want %q", pair.Subtitle, "metallica")
	}
}

func TestMemoizedReturnsSamePairs(t *testing.T) {
	n, err := Memoized(Default{}, 16)
	if err != nil {
		t.Fatalf("memoized: %v", err)
	}

	first := n.Film("blu-ray", "blue-ray title", "film", "some director", 2007)
	second := n.Film("blu-ray", "blue-ray title", "film", "some director", 2007)
	if first != second {
		t.Fatalf("cached pair %+v differs from original %+v", second, first)
	}

	memo, ok := n.(*Memoizing)
	if !ok {
		t.Fatalf("expected *Memoizing, got %T", n)
	}
	if memo.Len() != 1 {
		t.Fatalf("cache len=%d, want 1", memo.Len())
	}

	n.Book("raw title", "fiction", "someone")
	if memo.Len() != 2 {
		t.Fatalf("cache len=%d, want 2", memo.Len())
	}
}

func TestMemoizedZeroSizeDisablesCache(t *testing.T) {
	n, err := Memoized(Default{}, 0)
	if err != nil {
		t.Fatalf("memoized: %v", err)
	}
	if _, ok := n.(Default); !ok {
		t.Fatalf("expected the inner normalizer back, got %T", n)
	}
}

func TestMemoizedKeysDoNotCollide(t *testing.T) {
	n, err := Memoized(Default{}, 16)
	if err != nil {
		t.Fatalf("memoized: %v", err)
	}

	dvd := n.Film("dvd", "shared title", "film", "director", 2007)
	bluray := n.Film("blu-ray", "shared title", "film", "director", 1999)
	if dvd == bluray {
		t.Fatalf("distinct inputs must not share a cache entry")
	}
	if bluray.Title != "shared title (1999)" {
		t.Fatalf("title=%q, want %q", bluray.Title, "shared title (1999)")
	}
}
