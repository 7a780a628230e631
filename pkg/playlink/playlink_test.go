package playlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_DriveShareLink(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
	}{
		{
			name:   "view link",
			raw:    "https://drive.google.com/file/d/1AbC_d-EfG9/view?usp=sharing",
			wantID: "1AbC_d-EfG9",
		},
		{
			name:   "preview link",
			raw:    "https://drive.google.com/file/d/xYz123/preview",
			wantID: "xYz123",
		},
		{
			name:   "bare d segment",
			raw:    "https://drive.google.com/d/fileID42",
			wantID: "fileID42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.raw)
			assert.True(t, p.Relay)
			assert.Equal(t, "https://drive.google.com/uc?export=download&id="+tt.wantID, p.URL)
		})
	}
}

func TestResolve_RawVideoExtensions(t *testing.T) {
	urls := []string{
		"https://cdn.example.com/movies/clip.mp4",
		"https://cdn.example.com/movies/clip.MKV",
		"http://host.example/file.avi?token=abc",
		"https://host.example/path/to/film.MoV",
		"https://host.example/series/ep1.webm",
	}

	for _, raw := range urls {
		p := Resolve(raw)
		assert.True(t, p.Relay, "raw=%s", raw)
		assert.Equal(t, raw, p.URL, "URL must pass through unchanged")
	}
}

func TestResolve_ExternalEmbed(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://streamtape.com/e/abc123",
		"https://example.com/player?id=9",
		"https://example.com/video.m3u8",
	}

	for _, raw := range urls {
		p := Resolve(raw)
		assert.False(t, p.Relay, "raw=%s", raw)
		assert.Equal(t, raw, p.URL)
	}
}

func TestResolve_DriveHostWithoutFileID(t *testing.T) {
	// Drive host but no recognizable file segment: fall through to embed.
	p := Resolve("https://drive.google.com/drive/folders/xyz")
	assert.False(t, p.Relay)
	assert.Equal(t, "https://drive.google.com/drive/folders/xyz", p.URL)
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []string{
		"https://drive.google.com/file/d/1AbC/view",
		"https://cdn.example.com/clip.mp4",
		"https://www.youtube.com/embed/xyz",
	}

	for _, raw := range inputs {
		first := Resolve(raw)
		second := Resolve(first.URL)
		assert.Equal(t, first.URL, second.URL, "raw=%s", raw)
		assert.Equal(t, first.Relay, second.Relay, "raw=%s", raw)
	}
}

func TestResolve_MalformedURL(t *testing.T) {
	p := Resolve("not a url at all")
	assert.False(t, p.Relay)
	assert.Equal(t, "not a url at all", p.URL)
}
