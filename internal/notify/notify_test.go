package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/pkg/telegram"
)

type sentCall struct {
	chatID   int64
	photoURL string
	text     string
	buttons  []telegram.InlineButton
}

type fakeSender struct {
	mu       sync.Mutex
	messages []sentCall
	photos   []sentCall
	err      error
	delay    time.Duration
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID int64, text string, buttons ...telegram.InlineButton) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentCall{chatID: chatID, text: text, buttons: buttons})
	return f.err
}

func (f *fakeSender) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, buttons ...telegram.InlineButton) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentCall{chatID: chatID, photoURL: photoURL, text: caption, buttons: buttons})
	return f.err
}

func testEntry() *catalog.Entry {
	return &catalog.Entry{
		ID:         42,
		Title:      "Night Train",
		Language:   "Hindi",
		Categories: []string{"Action", "Latest"},
	}
}

func TestAnnounce_PlainMessagePerChat(t *testing.T) {
	sender := &fakeSender{}
	a := New(sender, []int64{-100, -200}, "https://movies.example/")

	a.Announce(context.Background(), testEntry())

	require.Len(t, sender.messages, 2)
	assert.Empty(t, sender.photos)

	chats := map[int64]bool{}
	for _, call := range sender.messages {
		chats[call.chatID] = true
		assert.Contains(t, call.text, "Night Train")
		assert.Contains(t, call.text, "Language: Hindi")
		assert.Contains(t, call.text, "Categories: Action, Latest")
		assert.Contains(t, call.text, "https://movies.example/watch/42")
		require.Len(t, call.buttons, 1)
		assert.Equal(t, "Watch Now", call.buttons[0].Text)
		assert.Equal(t, "https://movies.example/watch/42", call.buttons[0].URL)
	}
	assert.True(t, chats[-100] && chats[-200], "every chat should receive the announcement")
}

func TestAnnounce_PhotoWhenPosterPresent(t *testing.T) {
	sender := &fakeSender{}
	a := New(sender, []int64{-100}, "https://movies.example")

	entry := testEntry()
	entry.Poster = "https://img.example/poster.jpg"
	a.Announce(context.Background(), entry)

	assert.Empty(t, sender.messages)
	require.Len(t, sender.photos, 1)
	assert.Equal(t, "https://img.example/poster.jpg", sender.photos[0].photoURL)
	assert.Contains(t, sender.photos[0].text, "Night Train")
}

func TestAnnounce_SendFailureDoesNotStopOthers(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	a := New(sender, []int64{-100, -200, -300}, "https://movies.example")

	a.Announce(context.Background(), testEntry())

	// Every chat is still attempted even though each send fails.
	assert.Len(t, sender.messages, 3)
}

func TestAnnounce_NoChatsConfigured(t *testing.T) {
	sender := &fakeSender{}
	a := New(sender, nil, "https://movies.example")

	a.Announce(context.Background(), testEntry())

	assert.Empty(t, sender.messages)
	assert.Empty(t, sender.photos)
}

func TestAnnounce_NilEntry(t *testing.T) {
	sender := &fakeSender{}
	a := New(sender, []int64{-100}, "https://movies.example")

	a.Announce(context.Background(), nil)

	assert.Empty(t, sender.messages)
}

func TestAnnounce_SendTimeout(t *testing.T) {
	sender := &fakeSender{delay: time.Second}
	a := New(sender, []int64{-100}, "https://movies.example", WithSendTimeout(10*time.Millisecond))

	start := time.Now()
	a.Announce(context.Background(), testEntry())

	assert.Less(t, time.Since(start), 500*time.Millisecond, "a stalled send should be cut off by the timeout")
}
