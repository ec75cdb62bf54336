package anilist

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

const searchQuery = `query ($search: String, $perPage: Int) {
  Page(perPage: $perPage) {
    media(search: $search, type: ANIME) {
      id
      title { english romaji native }
      synonyms
      format
      status
      source
      countryOfOrigin
      episodes
      genres
      coverImage { extraLarge large }
      bannerImage
      startDate { year }
      studios { edges { node { name isAnimationStudio } } }
      siteUrl
    }
  }
}`

// Searcher defines the lookup operation the resolver depends on.
type Searcher interface {
	Search(ctx context.Context, title string) ([]Media, error)
}

// Client queries the AniList GraphQL endpoint.
type Client struct {
	baseURL string
	token   string
	perPage int
	http    *ratelimit.Client
}

var _ Searcher = (*Client)(nil)

// Settings configures a Client.
type Settings struct {
	BaseURL         string
	Token           string
	PerPage         int
	RequestInterval time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	Timeout         time.Duration
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

// New creates an AniList client.
func New(settings Settings, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("anilist base url required")
	}
	perPage := settings.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	client := &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(settings.Token),
		perPage: perPage,
		http: ratelimit.NewClient(
			settings.RequestInterval,
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

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// Search returns candidate series for the title, in AniList's relevance
// order. An empty result slice with a nil error means no candidates.
func (c *Client) Search(ctx context.Context, title string) ([]Media, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("search title must not be empty")
	}

	payload, err := json.Marshal(graphqlRequest{
		Query: searchQuery,
		Variables: map[string]any{
			"search":  title,
			"perPage": c.perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	body, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("anilist search %q: %w", title, err)
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode anilist response: %w", err)
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("anilist search %q: api error: %s", title, response.Errors[0].Message)
	}
	return response.Data.Page.Media, nil
}
