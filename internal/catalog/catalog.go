// Package catalog manages the title catalog (movies, series, playback links, episodes).
package catalog

import (
	"time"
)

// EntryType distinguishes movies from series.
type EntryType string

const (
	EntryTypeMovie  EntryType = "movie"
	EntryTypeSeries EntryType = "series"
)

// Entry represents a catalog title.
type Entry struct {
	ID          int64
	Type        EntryType
	Title       string
	Description string
	Poster      string
	Backdrop    string
	Language    string
	Categories  []string
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Links holds the playback links for movies, ordered by position.
	// A movie with no links is tracked but not yet playable.
	Links []*Link

	// Episodes holds the episode list for series, ordered by season then
	// episode number.
	Episodes []*Episode
}

// Link is a single playback link for an entry.
type Link struct {
	ID          int64
	EntryID     int64
	Position    int
	Quality     string
	URL         string
	DownloadURL string
}

// Episode is a single episode of a series. URL may be empty when the episode
// has no watch link yet.
type Episode struct {
	ID      int64
	EntryID int64
	Season  int
	Episode int
	Title   string
	URL     string
}

// PrimaryLink returns the first playback link by position, or nil when the
// entry has none.
func (e *Entry) PrimaryLink() *Link {
	if len(e.Links) == 0 {
		return nil
	}
	return e.Links[0]
}
