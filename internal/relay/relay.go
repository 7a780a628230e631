// Package relay proxies upstream video bytes to the browser so raw file
// hosts play inline instead of forcing a download.
package relay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/pkg/playlink"
)

// DefaultUpstreamTimeout bounds a single relayed fetch end to end.
const DefaultUpstreamTimeout = 10 * time.Minute

// EntryStore is the catalog access the relay needs.
type EntryStore interface {
	GetEntry(id int64) (*catalog.Entry, error)
	IncrementViews(id int64) error
}

// strippedHeaders would conflict with the framing the relay imposes on its
// own response and are never forwarded from upstream.
var strippedHeaders = []string{
	"Content-Disposition",
	"Content-Encoding",
	"Transfer-Encoding",
	"Connection",
	"Set-Cookie",
}

// forwardedHeaders are copied from the upstream response when present.
var forwardedHeaders = []string{
	"Content-Length",
	"Content-Range",
	"Accept-Ranges",
	"Last-Modified",
	"ETag",
}

// Relay streams an entry's primary playback URL to the client.
type Relay struct {
	store      EntryStore
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithHTTPClient sets a custom upstream HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Relay) {
		r.httpClient = hc
	}
}

// WithTimeout sets the upstream fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		r.httpClient.Timeout = d
	}
}

// New creates a relay over the given catalog store.
func New(store EntryStore, log *slog.Logger, opts ...Option) *Relay {
	if log == nil {
		log = slog.Default()
	}
	r := &Relay{
		store:      store,
		httpClient: &http.Client{Timeout: DefaultUpstreamTimeout},
		log:        log.With("component", "relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ServeHTTP handles GET /watch/{id}. It forwards the caller's Range header
// upstream, streams the body back without buffering, and rewrites headers so
// the browser plays the file inline.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := rl.store.GetEntry(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		rl.log.Error("entry lookup failed", "id", id, "error", err)
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}

	link := entry.PrimaryLink()
	if link == nil {
		http.Error(w, "entry has no playback link", http.StatusNotFound)
		return
	}

	playable := playlink.Resolve(link.URL)
	if !playable.Relay {
		http.Error(w, "link is not relay-eligible", http.StatusBadRequest)
		return
	}

	// The inbound request context cancels the upstream fetch when the
	// viewer disconnects.
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, playable.URL, nil)
	if err != nil {
		rl.log.Error("bad upstream url", "id", id, "url", playable.URL, "error", err)
		http.Error(w, "invalid upstream url", http.StatusBadGateway)
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := rl.httpClient.Do(req)
	if err != nil {
		rl.log.Warn("upstream fetch failed", "id", id, "error", err)
		http.Error(w, "upstream source unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		rl.log.Warn("upstream returned error", "id", id, "status", resp.StatusCode)
		http.Error(w, fmt.Sprintf("upstream returned status %d", resp.StatusCode), http.StatusBadGateway)
		return
	}

	// Best-effort view count; playback matters more than the counter.
	if err := rl.store.IncrementViews(id); err != nil {
		rl.log.Warn("view count update failed", "id", id, "error", err)
	}

	for _, h := range forwardedHeaders {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	for _, h := range strippedHeaders {
		w.Header().Del(h)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "inline")
	if w.Header().Get("Accept-Ranges") == "" {
		w.Header().Set("Accept-Ranges", "bytes")
	}

	w.WriteHeader(resp.StatusCode)

	// Stream without buffering; arbitrarily large files must not be read
	// into memory.
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Viewer disconnects surface here; nothing to recover.
		rl.log.Debug("stream copy ended", "id", id, "error", err)
	}
}
