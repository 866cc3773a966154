// Package chat talks to the mascot conversation backend and keeps the
// visible conversation.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Page contexts sent with every message.
const (
	ContextHome      = "CONTEXT_HOME"
	ContextComics    = "CONTEXT_COMICS"
	ContextAbout     = "CONTEXT_ABOUT"
	ContextCommunity = "CONTEXT_COMMUNITY"
	ContextGeneral   = "CONTEXT_GENERAL"
)

// ContextFromPath maps a page path to its chat context.
func ContextFromPath(path string) string {
	switch path {
	case "/":
		return ContextHome
	case "/comics":
		return ContextComics
	case "/about":
		return ContextAbout
	case "/community":
		return ContextCommunity
	default:
		return ContextGeneral
	}
}

// NewUserID returns a fresh visitor id.
func NewUserID() string {
	return "web-" + uuid.NewString()
}

// Request is the body of POST /v1/chat.
type Request struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Context string `json:"context"`
}

// Response is the backend reply. AudioBase64 may be empty.
type Response struct {
	Response    string `json:"response"`
	AudioBase64 string `json:"audio_base64"`
}

// Service sends one message.
type Service interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// Client is the HTTP Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("chat api url required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Send makes a single attempt.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	if req.Context == "" {
		req.Context = ContextGeneral
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("babaru api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Response{}, fmt.Errorf("babaru api error: %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode reply: %w", err)
	}
	return out, nil
}
