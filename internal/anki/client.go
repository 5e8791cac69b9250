// Package anki talks to a running Anki desktop through the AnkiConnect
// add-on and turns the notes it returns into dataset notes.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultURL is where AnkiConnect listens by default.
	DefaultURL = "http://127.0.0.1:8765"

	// APIVersion is the AnkiConnect protocol version requested.
	APIVersion = 6
)

// APIError is an error reported by AnkiConnect itself.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anki %s: %s", e.Action, e.Message)
}

// Client is an AnkiConnect client.
type Client struct {
	url     string
	http    *http.Client
	retries uint64
	backoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets how many times a failed connection is retried and the
// delay between attempts. AnkiConnect errors are never retried.
func WithRetries(n uint64, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff
	}
}

// NewClient creates a client for the AnkiConnect endpoint at url. An empty
// url means DefaultURL.
func NewClient(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:     url,
		http:    &http.Client{Timeout: 30 * time.Second},
		retries: 2,
		backoff: 200 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one action and decodes its result into out.
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	if params == nil {
		params = struct{}{}
	}
	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return fmt.Errorf("anki %s: encode request: %w", action, err)
	}

	var resp response
	b := retry.WithMaxRetries(c.retries, retry.NewConstant(max(c.backoff, time.Millisecond)))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		raw, err := c.post(ctx, body)
		if err != nil {
			return retry.RetryableError(err)
		}
		resp = response{}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("anki %s: %w", action, err)
	}

	if resp.Error != nil {
		return &APIError{Action: action, Message: *resp.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("anki %s: decode result: %w", action, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	return raw, nil
}

// Version returns the AnkiConnect protocol version.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// Ping reports whether AnkiConnect answers.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.Version(ctx)
	return err == nil
}

// DeckNames lists all decks.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.invoke(ctx, "deckNames", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModelNames lists all note types.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.invoke(ctx, "modelNames", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModelFieldNames lists the fields of a note type.
func (c *Client) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	var out []string
	if err := c.invoke(ctx, "modelFieldNames", map[string]any{"modelName": model}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags lists all tags.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.invoke(ctx, "getTags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindNotes returns the IDs of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var out []int64
	if err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NotesInfo fetches the notes with the given IDs.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]NoteInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []NoteInfo
	if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenNote opens the Anki browser on a single note.
func (c *Client) OpenNote(ctx context.Context, noteID int64) error {
	query := "nid:" + strconv.FormatInt(noteID, 10)
	return c.invoke(ctx, "guiBrowse", map[string]any{"query": query}, nil)
}
