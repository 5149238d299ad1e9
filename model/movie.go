package model

import "strings"

// PosterURL is an opaque poster location. Build it with NewPosterURL.
type PosterURL string

// NewPosterURL joins a provider image path onto the image base URL.
// An empty path yields an empty PosterURL.
func NewPosterURL(base string, path string) PosterURL {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return PosterURL(path)
	}
	return PosterURL(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"))
}

func (p PosterURL) String() string {
	return string(p)
}

type Movie struct {
	Title      string    `json:"title"`
	Genres     []string  `json:"genres"`
	Poster     PosterURL `json:"poster"`
	Rating     float64   `json:"rating"`
	IsSelected bool      `json:"isSelected"`
}

// HasGenre reports whether genre is one of the movie's genres.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
