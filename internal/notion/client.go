package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anisync/internal/ratelimit"
)

// notionInterval spaces requests to stay inside the integration rate
// limit of roughly three requests per second.
const notionInterval = 350 * time.Millisecond

// API defines the page operations the synchronizer depends on.
type API interface {
	AllPages(ctx context.Context, databaseID string) ([]Page, error)
	CreatePage(ctx context.Context, databaseID string, properties Properties, icon *Icon, cover *Cover) (*Page, error)
	UpdatePage(ctx context.Context, pageID string, properties Properties, icon *Icon, cover *Cover) (*Page, error)
}

// Client talks to the Notion REST API.
type Client struct {
	baseURL string
	token   string
	version string
	http    *ratelimit.Client
}

var _ API = (*Client)(nil)

// Settings configures a Client.
type Settings struct {
	BaseURL    string
	Token      string
	Version    string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Option customizes the Client beyond its Settings.
type Option func(*Client)

// WithExecutor overrides the rate-limited executor (used by tests).
func WithExecutor(executor *ratelimit.Client) Option {
	return func(c *Client) {
		if executor != nil {
			c.http = executor
		}
	}
}

// New creates a Notion client.
func New(settings Settings, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(settings.Token)
	if token == "" {
		return nil, errors.New("notion token required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("notion base url required")
	}
	version := strings.TrimSpace(settings.Version)
	if version == "" {
		version = "2022-06-28"
	}
	client := &Client{
		baseURL: baseURL,
		token:   token,
		version: version,
		http: ratelimit.NewClient(
			notionInterval,
			settings.MaxRetries,
			settings.RetryDelay,
			ratelimit.WithHTTPClient(&http.Client{Timeout: settings.Timeout}),
		),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// AllPages walks the database query pagination and returns every page.
func (c *Client) AllPages(ctx context.Context, databaseID string) ([]Page, error) {
	databaseID = strings.TrimSpace(databaseID)
	if databaseID == "" {
		return nil, errors.New("database id required")
	}

	var pages []Page
	cursor := ""
	for {
		body, err := c.do(ctx, http.MethodPost,
			fmt.Sprintf("/databases/%s/query", databaseID),
			queryRequest{StartCursor: cursor, PageSize: 100})
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		var response queryResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("decode database query: %w", err)
		}
		pages = append(pages, response.Results...)
		if !response.HasMore || response.NextCursor == "" {
			return pages, nil
		}
		cursor = response.NextCursor
	}
}

type pageRequest struct {
	Parent     *pageParent `json:"parent,omitempty"`
	Properties Properties  `json:"properties,omitempty"`
	Icon       *Icon       `json:"icon,omitempty"`
	Cover      *Cover      `json:"cover,omitempty"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage creates a page in the database with the given properties.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties Properties, icon *Icon, cover *Cover) (*Page, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, errors.New("database id required")
	}
	if len(properties) == 0 {
		return nil, errors.New("properties required")
	}
	body, err := c.do(ctx, http.MethodPost, "/pages", pageRequest{
		Parent:     &pageParent{DatabaseID: databaseID},
		Properties: properties,
		Icon:       icon,
		Cover:      cover,
	})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return decodePage(body)
}

// UpdatePage patches the named properties of an existing page. Properties
// not present in the payload keep their current values.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties Properties, icon *Icon, cover *Cover) (*Page, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, errors.New("page id required")
	}
	if len(properties) == 0 && icon == nil && cover == nil {
		return nil, errors.New("nothing to update")
	}
	body, err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, pageRequest{
		Properties: properties,
		Icon:       icon,
		Cover:      cover,
	})
	if err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	return decodePage(body)
}

func decodePage(body []byte) (*Page, error) {
	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Notion-Version", c.version)
		return req, nil
	})
}
