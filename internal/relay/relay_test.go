package relay

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/internal/migrations"
)

func setupStore(t *testing.T) *catalog.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return catalog.NewStore(db)
}

func addEntry(t *testing.T, store *catalog.Store, url string) *catalog.Entry {
	t.Helper()
	e := &catalog.Entry{
		Type:  catalog.EntryTypeMovie,
		Title: "Relay Test",
		Links: []*catalog.Link{{Quality: "HD", URL: url}},
	}
	require.NoError(t, store.AddEntry(e))
	return e
}

func relayRequest(rl *Relay, id string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/watch/"+id, nil)
	req.SetPathValue("id", id)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	rl.ServeHTTP(w, req)
	return w
}

func TestRelay_StreamsUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/x-matroska")
		w.Header().Set("Content-Disposition", `attachment; filename="movie.mkv"`)
		_, _ = w.Write([]byte("fake video bytes"))
	}))
	defer upstream.Close()

	store := setupStore(t)
	e := addEntry(t, store, upstream.URL+"/movie.mkv")
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fake video bytes", w.Body.String())
	assert.Equal(t, "video/x-matroska", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline", w.Header().Get("Content-Disposition"))
	assert.NotContains(t, strings.ToLower(w.Header().Get("Content-Disposition")), "attachment")

	// View counter incremented on a served stream.
	got, err := store.GetEntry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
}

func TestRelay_ForwardsRangeHeader(t *testing.T) {
	var gotRange string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Header().Set("Content-Range", "bytes 0-99/1000")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(make([]byte, 100))
	}))
	defer upstream.Close()

	store := setupStore(t)
	addEntry(t, store, upstream.URL+"/movie.mp4")
	rl := New(store, nil)

	w := relayRequest(rl, "1", http.Header{"Range": []string{"bytes=0-99"}})

	assert.Equal(t, "bytes=0-99", gotRange)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 0-99/1000", w.Header().Get("Content-Range"))
}

func TestRelay_NoRangeHeaderOmitted(t *testing.T) {
	var sawRange bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawRange = r.Header["Range"]
		_, _ = w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	store := setupStore(t)
	addEntry(t, store, upstream.URL+"/movie.mp4")
	rl := New(store, nil)

	relayRequest(rl, "1", nil)
	assert.False(t, sawRange, "Range header must not be sent when absent")
}

func TestRelay_UnknownEntry_NoUpstreamCall(t *testing.T) {
	var upstreamCalled bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	store := setupStore(t)
	rl := New(store, nil)

	w := relayRequest(rl, "999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, upstreamCalled)
}

func TestRelay_InvalidID(t *testing.T) {
	rl := New(setupStore(t), nil)
	w := relayRequest(rl, "abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelay_EmbedLinkRejected(t *testing.T) {
	store := setupStore(t)
	addEntry(t, store, "https://www.youtube.com/embed/xyz")
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelay_NoLink(t *testing.T) {
	store := setupStore(t)
	e := &catalog.Entry{Type: catalog.EntryTypeMovie, Title: "Linkless"}
	require.NoError(t, store.AddEntry(e))
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRelay_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close() // connection refused from here on

	store := setupStore(t)
	addEntry(t, store, url+"/movie.mp4")
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// No view counted for a failed stream.
	got, err := store.GetEntry(1)
	require.NoError(t, err)
	assert.Zero(t, got.Views)
}

func TestRelay_UpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	store := setupStore(t)
	addEntry(t, store, upstream.URL+"/movie.mp4")
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRelay_DefaultsContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("x"))
	}))
	defer upstream.Close()

	store := setupStore(t)
	addEntry(t, store, upstream.URL+"/movie.mp4")
	rl := New(store, nil)

	w := relayRequest(rl, "1", nil)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
}
