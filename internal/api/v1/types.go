// internal/api/v1/types.go
package v1

import "time"

// entryResponse is the API representation of a catalog entry.
type entryResponse struct {
	ID          int64            `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Poster      string           `json:"poster,omitempty"`
	Backdrop    string           `json:"backdrop,omitempty"`
	Language    string           `json:"language,omitempty"`
	Categories  []string         `json:"categories"`
	Views       int64            `json:"views"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Links       []linkResponse   `json:"links,omitempty"`
	Seasons     []seasonResponse `json:"seasons,omitempty"`
}

// linkResponse carries a playback link plus its relay classification.
type linkResponse struct {
	ID          int64  `json:"id"`
	Quality     string `json:"quality"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url,omitempty"`
	// WatchURL is the relay path when the link is relay-eligible;
	// otherwise URL is an external embed to open directly.
	WatchURL string `json:"watch_url,omitempty"`
	Relay    bool   `json:"relay"`
}

type seasonResponse struct {
	Season   int               `json:"season"`
	Episodes []episodeResponse `json:"episodes"`
}

type episodeResponse struct {
	ID      int64  `json:"id"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
}

// listEntriesResponse is the response for GET /entries.
type listEntriesResponse struct {
	Items  []entryResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type linkRequest struct {
	Quality     string `json:"quality"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url,omitempty"`
}

type episodeRequest struct {
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
}

type addEntryRequest struct {
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Poster      string           `json:"poster,omitempty"`
	Backdrop    string           `json:"backdrop,omitempty"`
	Language    string           `json:"language,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	Links       []linkRequest    `json:"links,omitempty"`
	Episodes    []episodeRequest `json:"episodes,omitempty"`
}

// updateEntryRequest applies partial updates; nil fields are left
// untouched. Links and Episodes replace the full set when present.
type updateEntryRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Poster      *string           `json:"poster,omitempty"`
	Backdrop    *string           `json:"backdrop,omitempty"`
	Language    *string           `json:"language,omitempty"`
	Categories  *[]string         `json:"categories,omitempty"`
	Links       *[]linkRequest    `json:"links,omitempty"`
	Episodes    *[]episodeRequest `json:"episodes,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type eventResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EntityID  int64  `json:"entity_id"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listEventsResponse struct {
	Items  []eventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type statusResponse struct {
	Status           string `json:"status"`
	Entries          int    `json:"entries"`
	IngestionEnabled bool   `json:"ingestion_enabled"`
	AdminEnabled     bool   `json:"admin_enabled"`
}
