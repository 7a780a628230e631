// Package ingest turns inbound bot-platform webhook payloads into catalog
// entries.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/internal/events"
	"github.com/moviezone/moviezone/pkg/telegram"
)

// dupThreshold is the Jaro-Winkler similarity above which an inbound title is
// treated as a re-upload of an existing entry and skipped.
const dupThreshold = 0.92

// FileResolver resolves a platform file reference to a direct-download URL.
type FileResolver interface {
	GetFile(ctx context.Context, fileID string) (string, error)
	FileURL(filePath string) string
}

// Notifier announces a newly created entry. Implementations never return an
// error; announcement failures are logged and swallowed.
type Notifier interface {
	Announce(ctx context.Context, e *catalog.Entry)
}

// EntryStore is the catalog access the pipeline needs.
type EntryStore interface {
	AddEntry(e *catalog.Entry) error
	ListEntries(f catalog.Filter) ([]*catalog.Entry, int, error)
}

// Config carries the defaults applied to auto-created entries.
type Config struct {
	DefaultLanguage string
	DefaultCategory string
}

// Ingestor processes webhook payloads into catalog entries.
type Ingestor struct {
	store    EntryStore
	resolver FileResolver
	notifier Notifier // optional
	eventLog *events.Log
	cfg      Config
	log      *slog.Logger

	announceWG sync.WaitGroup
}

// New creates an ingestor. notifier and eventLog may be nil.
func New(store EntryStore, resolver FileResolver, notifier Notifier, eventLog *events.Log, cfg Config, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{
		store:    store,
		resolver: resolver,
		notifier: notifier,
		eventLog: eventLog,
		cfg:      cfg,
		log:      log.With("component", "ingest"),
	}
}

// ProcessUpdate runs the pipeline for one inbound update. A nil return means
// either a created entry or a deliberately ignored payload; the webhook layer
// acknowledges success either way.
func (i *Ingestor) ProcessUpdate(ctx context.Context, upd telegram.Update) error {
	if upd.Message == nil {
		return nil
	}
	msg := upd.Message
	if msg.Video == nil {
		// Text-only messages are chatter, not uploads.
		return nil
	}

	title := CandidateTitle(msg.Caption, msg.Video.FileName)
	if title == "" {
		return fmt.Errorf("no usable title for file %s", msg.Video.FileID)
	}

	if existing, ok := i.findDuplicate(title); ok {
		i.log.Info("skipping duplicate upload", "title", title, "existing_id", existing.ID, "existing_title", existing.Title)
		return nil
	}

	filePath, err := i.resolver.GetFile(ctx, msg.Video.FileID)
	if err != nil {
		return fmt.Errorf("resolve file %s: %w", msg.Video.FileID, err)
	}

	entry := &catalog.Entry{
		Type:     catalog.EntryTypeMovie,
		Title:    title,
		Language: i.cfg.DefaultLanguage,
		Links: []*catalog.Link{
			{Quality: "HD", URL: i.resolver.FileURL(filePath)},
		},
	}
	if i.cfg.DefaultCategory != "" {
		entry.Categories = []string{i.cfg.DefaultCategory}
	}
	if err := i.store.AddEntry(entry); err != nil {
		return fmt.Errorf("insert entry %q: %w", title, err)
	}
	i.log.Info("ingested entry", "id", entry.ID, "title", entry.Title, "chat_id", msg.Chat.ID)

	if i.eventLog != nil {
		if _, err := i.eventLog.Append(events.EntryIngested, entry.ID, entry.Title); err != nil {
			i.log.Warn("event append failed", "id", entry.ID, "error", err)
		}
	}

	if i.notifier != nil {
		// Chat sends must not hold up the webhook ack. The announcer runs
		// detached from the request context; it bounds its own sends.
		i.announceWG.Add(1)
		go func(ctx context.Context, e *catalog.Entry) {
			defer i.announceWG.Done()
			i.notifier.Announce(ctx, e)
		}(context.WithoutCancel(ctx), entry)
	}
	return nil
}

// Wait blocks until all in-flight announcements have finished. The daemon
// calls it during shutdown so pending sends are not cut off mid-flight.
func (i *Ingestor) Wait() {
	i.announceWG.Wait()
}

// findDuplicate scans existing titles for a near-identical match.
func (i *Ingestor) findDuplicate(title string) (*catalog.Entry, bool) {
	entries, _, err := i.store.ListEntries(catalog.Filter{})
	if err != nil {
		// A failed scan must not block ingestion.
		i.log.Warn("duplicate scan failed", "error", err)
		return nil, false
	}

	lower := strings.ToLower(title)
	for _, e := range entries {
		score := float64(edlib.JaroWinklerSimilarity(lower, strings.ToLower(e.Title)))
		if score >= dupThreshold {
			return e, true
		}
	}
	return nil, false
}

var titleCaser = cases.Title(language.Und)

// CandidateTitle derives the entry title from the caption's first line,
// falling back to a cleaned-up form of the file name.
func CandidateTitle(caption, fileName string) string {
	if line, _, _ := strings.Cut(strings.TrimSpace(caption), "\n"); line != "" {
		return strings.TrimSpace(line)
	}

	name := strings.TrimSuffix(fileName, path.Ext(fileName))
	name = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(name))
}
