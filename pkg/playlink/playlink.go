// Package playlink classifies raw watch URLs into playable form.
package playlink

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Playable is the result of classifying a raw watch URL.
type Playable struct {
	// URL is the normalized URL the player should use.
	URL string
	// Relay reports whether the URL must be served through the stream
	// relay instead of an external embed.
	Relay bool
}

// driveFileIDRegex extracts the file ID from a Google Drive share link
// (https://drive.google.com/file/d/<id>/view and friends).
var driveFileIDRegex = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// videoExtensions are raw container formats the relay serves directly.
// Many file hosts send attachment headers for these, which breaks inline
// playback unless the relay rewrites them.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
}

// Resolve classifies a raw watch URL.
//
// Google Drive share links are rewritten to the direct-content endpoint and
// marked for relay. URLs ending in a raw video extension are left unchanged
// and marked for relay. Anything else is treated as an externally embeddable
// player and passed through untouched.
//
// Resolve is idempotent: applying it to its own output yields the same
// Playable.
func Resolve(raw string) Playable {
	if isDriveHost(raw) {
		if m := driveFileIDRegex.FindStringSubmatch(rawPath(raw)); m != nil {
			return Playable{
				URL:   "https://drive.google.com/uc?export=download&id=" + m[1],
				Relay: true,
			}
		}
		// Already-rewritten direct-content link. Keeps Resolve stable
		// under re-classification.
		if rawPath(raw) == "/uc" {
			return Playable{URL: raw, Relay: true}
		}
	}

	if videoExtensions[strings.ToLower(path.Ext(rawPath(raw)))] {
		return Playable{URL: raw, Relay: true}
	}

	return Playable{URL: raw}
}

func isDriveHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.Contains(raw, "drive.google.com")
	}
	host := strings.ToLower(u.Hostname())
	return host == "drive.google.com" || strings.HasSuffix(host, ".drive.google.com")
}

// rawPath returns the path component of raw, or raw itself when it does not
// parse as a URL. Classification stays best-effort for malformed input.
func rawPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return raw
	}
	return u.Path
}
