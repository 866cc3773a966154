// Package supabase is a small PostgREST and storage client for the hosted
// catalog database.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Storage buckets.
const (
	BucketAssets      = "babaru-assets"
	BucketVideos      = "comic-videos"
	BucketThumbnails  = "comic-thumbnails"
	BucketUserUploads = "user-uploads"
)

// ErrNotFound is returned by SelectOne when no row matches.
var ErrNotFound = errors.New("row not found")

// StatusError carries a non-2xx PostgREST response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one project.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the project at baseURL.
func New(baseURL, anonKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("supabase url required")
	}
	anonKey = strings.TrimSpace(anonKey)
	if anonKey == "" {
		return nil, errors.New("supabase anon key required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Order sorts a select.
type Order struct {
	Column    string
	Ascending bool
}

// Query narrows a select. Eq filters are ANDed.
type Query struct {
	Columns string
	Eq      map[string]string
	Order   []Order
	Limit   int
}

func (q Query) values() url.Values {
	v := url.Values{}
	cols := q.Columns
	if cols == "" {
		cols = "*"
	}
	v.Set("select", cols)
	for col, val := range q.Eq {
		v.Set(col, "eq."+val)
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			// "order" is a reserved word in PostgREST column lists
			parts = append(parts, fmt.Sprintf("%q.%s", o.Column, dir))
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Select decodes the rows of table matching q into out (a pointer to a
// slice).
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(table), q.values().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// SelectOne decodes the single row of table matching q into out.
func (c *Client) SelectOne(ctx context.Context, table string, q Query, out any) error {
	q.Limit = 1
	var rows []json.RawMessage
	if err := c.Select(ctx, table, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("decode %s row: %w", table, err)
	}
	return nil
}

// Insert adds row to table without reading it back.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	return c.do(req, nil)
}

// PublicURL returns the public object URL of path in bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, strings.TrimLeft(path, "/"))
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &payload) != nil || payload.Message == "" {
			payload.Message = strings.TrimSpace(string(data))
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
