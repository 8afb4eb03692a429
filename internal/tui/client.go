// Package tui implements the terminal catalog browser.
package tui

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/up4down/up4down-server/internal/browse"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/search"
)

// API is the slice of the server surface the browser needs. Client
// implements it over HTTP; tests substitute fakes.
type API interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Browse(ctx context.Context, filter browse.Filter) ([]domain.Item, error)
	Suggest(ctx context.Context, query string) ([]search.Suggestion, error)
	Download(ctx context.Context, itemID string) (string, error)
}

var _ API = (*Client)(nil)

// Client talks to the catalog server's public API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope mirrors the server's response wrapper.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodGet, path)
}

func call[T any](ctx context.Context, c *Client, method, path string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return zero, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.UnmarshalRead(resp.Body, &env); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return zero, fmt.Errorf("server: %s", env.Error)
		}
		return zero, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return env.Data, nil
}

// Categories fetches all categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return get[[]domain.Category](ctx, c, "/api/v1/categories")
}

// Browse fetches items matching the filter.
func (c *Client) Browse(ctx context.Context, filter browse.Filter) ([]domain.Item, error) {
	params := url.Values{}
	for _, slug := range filter.CategorySlugs {
		params.Add("category", slug)
	}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}

	path := "/api/v1/items"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return get[[]domain.Item](ctx, c, path)
}

// Suggest fetches title suggestions for a partial query.
func (c *Client) Suggest(ctx context.Context, query string) ([]search.Suggestion, error) {
	return get[[]search.Suggestion](ctx, c, "/api/v1/search/suggest?q="+url.QueryEscape(query))
}

// Download triggers a download and returns the file URL.
func (c *Client) Download(ctx context.Context, itemID string) (string, error) {
	result, err := call[struct {
		DownloadURL string `json:"download_url"`
	}](ctx, c, http.MethodPost, "/api/v1/items/"+itemID+"/download")
	if err != nil {
		return "", err
	}
	return result.DownloadURL, nil
}
