package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// Client wraps a chat-completions API with image input support.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	prompt     string
	httpClient *http.Client
}

// Option customizes the vision client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the completions endpoint (useful for tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// NewClient constructs a vision API client.
func NewClient(apiKey, endpoint, model, prompt string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("vision api key required")
	}
	client := &Client{
		apiKey:     apiKey,
		endpoint:   strings.TrimSpace(endpoint),
		model:      strings.TrimSpace(model),
		prompt:     prompt,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.endpoint == "" {
		return nil, errors.New("vision endpoint required")
	}
	if client.model == "" {
		return nil, errors.New("vision model required")
	}
	return client, nil
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractTitles sends one image and returns the titles the model read
// from it, one per response line.
func (c *Client) ExtractTitles(ctx context.Context, imageName string, imageData []byte) ([]string, error) {
	if len(imageData) == 0 {
		return nil, errors.New("image data required")
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		mimeType(imageName), base64.StdEncoding.EncodeToString(imageData))

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: c.prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("vision extract: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vision extract: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision extract: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision extract: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("vision extract: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("vision extract: decode response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("vision extract: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("vision extract: empty choices")
	}

	return parseTitleLines(completion.Choices[0].Message.Content), nil
}

// parseTitleLines splits model output into clean title lines, stripping
// the list markers models add despite instructions.
func parseTitleLines(content string) []string {
	var parsed []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parsed = append(parsed, line)
	}
	return parsed
}

func mimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
