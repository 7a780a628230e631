package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the moviezone server. The cookie jar
// carries the session set by Login.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new moviezone API client.
func NewClient(serverURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) put(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// API response types (mirror server types)

type StatusResponse struct {
	Status           string `json:"status"`
	Entries          int    `json:"entries"`
	IngestionEnabled bool   `json:"ingestion_enabled"`
	AdminEnabled     bool   `json:"admin_enabled"`
}

type LinkResponse struct {
	ID          int64  `json:"id"`
	Quality     string `json:"quality"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url,omitempty"`
	WatchURL    string `json:"watch_url,omitempty"`
	Relay       bool   `json:"relay"`
}

type EpisodeResponse struct {
	ID      int64  `json:"id"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
}

type SeasonResponse struct {
	Season   int               `json:"season"`
	Episodes []EpisodeResponse `json:"episodes"`
}

type EntryResponse struct {
	ID         int64            `json:"id"`
	Type       string           `json:"type"`
	Title      string           `json:"title"`
	Language   string           `json:"language,omitempty"`
	Categories []string         `json:"categories"`
	Views      int64            `json:"views"`
	CreatedAt  string           `json:"created_at"`
	Links      []LinkResponse   `json:"links,omitempty"`
	Seasons    []SeasonResponse `json:"seasons,omitempty"`
}

type ListEntriesResponse struct {
	Items  []EntryResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type EventResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EntityID  int64  `json:"entity_id"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

type AddEntryRequest struct {
	Type       string           `json:"type"`
	Title      string           `json:"title"`
	Language   string           `json:"language,omitempty"`
	Categories []string         `json:"categories,omitempty"`
	Links      []map[string]any `json:"links,omitempty"`
}

// API methods

// Login authenticates against the admin API. The session cookie lands
// in the client's jar.
func (c *Client) Login(username, password string) error {
	if username == "" {
		return fmt.Errorf("admin credentials required (--username/--password or MOVIEZONE_USERNAME/MOVIEZONE_PASSWORD)")
	}
	return c.post("/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Entries(entryType, category, query, sort string, limit, offset int) (*ListEntriesResponse, error) {
	params := url.Values{}
	if entryType != "" {
		params.Set("type", entryType)
	}
	if category != "" {
		params.Set("category", category)
	}
	if query != "" {
		params.Set("q", query)
	}
	if sort != "" {
		params.Set("sort", sort)
	}
	params.Set("limit", fmt.Sprint(limit))
	params.Set("offset", fmt.Sprint(offset))

	var resp ListEntriesResponse
	if err := c.get("/api/v1/entries?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Entry(id int64) (*EntryResponse, error) {
	var resp EntryResponse
	if err := c.get(fmt.Sprintf("/api/v1/entries/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddEntry(req *AddEntryRequest) (*EntryResponse, error) {
	var resp EntryResponse
	if err := c.post("/api/v1/entries", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteEntry(id int64) error {
	return c.delete(fmt.Sprintf("/api/v1/entries/%d", id))
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
