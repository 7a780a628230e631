// Package telegram is a minimal Telegram Bot API client covering the
// operations the catalog needs: file resolution and channel announcements.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL     = "https://api.telegram.org"
	defaultFileBaseURL = "https://api.telegram.org"
)

// Sentinel errors for Bot API responses.
var (
	ErrNotConfigured = errors.New("telegram: bot token not configured")
	ErrNotFound      = errors.New("telegram: file not found")
)

// Client is a Telegram Bot API client.
type Client struct {
	token       string
	baseURL     string
	fileBaseURL string
	httpClient  *http.Client
	log         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithFileBaseURL sets the static file-serving domain used by FileURL.
func WithFileBaseURL(url string) Option {
	return func(c *Client) {
		c.fileBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "telegram")
	}
}

// New creates a new Bot API client. An empty token yields a client whose
// calls all return ErrNotConfigured, so callers can hold it unconditionally.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:       token,
		baseURL:     defaultBaseURL,
		fileBaseURL: defaultFileBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has a bot token.
func (c *Client) Configured() bool {
	return c.token != ""
}

// GetFile resolves a file ID to its short-lived file path.
func (c *Client) GetFile(ctx context.Context, fileID string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", c.baseURL, c.token, url.QueryEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create getFile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute getFile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}

	var fileResp getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fileResp); err != nil {
		return "", fmt.Errorf("decode getFile response: %w", err)
	}
	if !fileResp.OK || fileResp.Result.FilePath == "" {
		return "", fmt.Errorf("getFile failed: %s", firstNonEmpty(fileResp.Description, resp.Status))
	}

	if c.log != nil {
		c.log.Debug("resolved file", "file_id", fileID, "file_path", fileResp.Result.FilePath)
	}
	return fileResp.Result.FilePath, nil
}

// FileURL templates the direct-download URL for a resolved file path.
func (c *Client) FileURL(filePath string) string {
	return fmt.Sprintf("%s/file/bot%s/%s", c.fileBaseURL, c.token, filePath)
}

// SendMessage posts a text message, optionally with a single row of inline
// URL buttons.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, buttons ...InlineButton) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup := inlineKeyboard(buttons); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.post(ctx, "sendMessage", payload)
}

// SendPhoto posts a photo with a caption, optionally with a single row of
// inline URL buttons.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, buttons ...InlineButton) error {
	payload := map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	}
	if markup := inlineKeyboard(buttons); markup != nil {
		payload["reply_markup"] = markup
	}
	return c.post(ctx, "sendPhoto", payload)
}

func (c *Client) post(ctx context.Context, method string, payload map[string]any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("%s failed: %s", method, firstNonEmpty(apiResp.Description, resp.Status))
	}
	return nil
}

func inlineKeyboard(buttons []InlineButton) map[string]any {
	if len(buttons) == 0 {
		return nil
	}
	return map[string]any{"inline_keyboard": [][]InlineButton{buttons}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
