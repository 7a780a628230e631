// Package notify announces newly added catalog entries to Telegram
// channels. Delivery is best effort: failures are logged, never
// propagated, and one slow channel does not block the others.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/pkg/telegram"
)

// DefaultSendTimeout bounds a single channel post.
const DefaultSendTimeout = 15 * time.Second

// Sender is the subset of the Telegram client used for announcements.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, buttons ...telegram.InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, buttons ...telegram.InlineButton) error
}

// Announcer posts new-entry announcements to a fixed set of chats.
type Announcer struct {
	sender      Sender
	chatIDs     []int64
	siteURL     string
	sendTimeout time.Duration
	log         *slog.Logger
}

// Option configures an Announcer.
type Option func(*Announcer)

// WithSendTimeout overrides the per-chat send timeout.
func WithSendTimeout(d time.Duration) Option {
	return func(a *Announcer) {
		a.sendTimeout = d
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(log *slog.Logger) Option {
	return func(a *Announcer) {
		a.log = log
	}
}

// New creates an Announcer posting to chatIDs. siteURL is the public
// base used to build watch links, without a trailing slash.
func New(sender Sender, chatIDs []int64, siteURL string, opts ...Option) *Announcer {
	a := &Announcer{
		sender:      sender,
		chatIDs:     chatIDs,
		siteURL:     strings.TrimRight(siteURL, "/"),
		sendTimeout: DefaultSendTimeout,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "notify")
	return a
}

// Announce posts the entry to every configured chat concurrently. It
// blocks until all sends have finished or timed out and never returns
// an error.
func (a *Announcer) Announce(ctx context.Context, entry *catalog.Entry) {
	if entry == nil || len(a.chatIDs) == 0 {
		return
	}

	text := a.messageText(entry)
	button := telegram.InlineButton{
		Text: "Watch Now",
		URL:  fmt.Sprintf("%s/watch/%d", a.siteURL, entry.ID),
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, chatID := range a.chatIDs {
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, a.sendTimeout)
			defer cancel()

			var err error
			if entry.Poster != "" {
				err = a.sender.SendPhoto(sendCtx, chatID, entry.Poster, text, button)
			} else {
				err = a.sender.SendMessage(sendCtx, chatID, text, button)
			}
			if err != nil {
				a.log.Warn("announcement failed", "chat_id", chatID, "entry_id", entry.ID, "error", err)
			}
			// Swallow the error so one dead chat does not cancel the rest.
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Announcer) messageText(entry *catalog.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎬 %s\n", entry.Title)
	if entry.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", entry.Language)
	}
	if len(entry.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(entry.Categories, ", "))
	}
	fmt.Fprintf(&b, "\n%s/watch/%d", a.siteURL, entry.ID)
	return b.String()
}
