package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFile_Success(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("file_id")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"F1","file_path":"videos/file_42.mp4"}}`))
	}))
	defer srv.Close()

	c := New("TOKEN", WithBaseURL(srv.URL))

	path, err := c.GetFile(context.Background(), "F1")
	require.NoError(t, err)
	assert.Equal(t, "videos/file_42.mp4", path)
	assert.Equal(t, "/botTOKEN/getFile", gotPath)
	assert.Equal(t, "F1", gotQuery)
}

func TestGetFile_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: file is too big"}`))
	}))
	defer srv.Close()

	c := New("TOKEN", WithBaseURL(srv.URL))

	_, err := c.GetFile(context.Background(), "F1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is too big")
}

func TestGetFile_NotConfigured(t *testing.T) {
	c := New("")
	_, err := c.GetFile(context.Background(), "F1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFileURL(t *testing.T) {
	c := New("TOKEN", WithFileBaseURL("https://files.example"))
	assert.Equal(t, "https://files.example/file/botTOKEN/videos/file_42.mp4", c.FileURL("videos/file_42.mp4"))
}

func TestSendPhoto_BuildsKeyboard(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New("TOKEN", WithBaseURL(srv.URL))

	err := c.SendPhoto(context.Background(), 42, "https://img.example/p.jpg", "New: Test Movie",
		InlineButton{Text: "Watch", URL: "https://site.example/watch/1"})
	require.NoError(t, err)

	assert.Equal(t, float64(42), body["chat_id"])
	assert.Equal(t, "https://img.example/p.jpg", body["photo"])
	assert.Equal(t, "New: Test Movie", body["caption"])
	require.Contains(t, body, "reply_markup")

	markup := body["reply_markup"].(map[string]any)
	rows := markup["inline_keyboard"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].([]any)
	require.Len(t, row, 1)
	button := row[0].(map[string]any)
	assert.Equal(t, "Watch", button["text"])
}

func TestSendMessage_NoButtonsOmitsMarkup(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New("TOKEN", WithBaseURL(srv.URL))

	require.NoError(t, c.SendMessage(context.Background(), 42, "hello"))
	assert.NotContains(t, body, "reply_markup")
}

func TestSendMessage_APIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was blocked"}`))
	}))
	defer srv.Close()

	c := New("TOKEN", WithBaseURL(srv.URL))

	err := c.SendMessage(context.Background(), 42, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot was blocked")
}
