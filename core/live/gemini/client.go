// Package gemini opens live interview channels on the Gemini Live API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"
)

const (
	DefaultModel      = "gemini-2.5-flash-native-audio-preview-12-2025"
	DefaultAPIVersion = "v1beta"
)

var ErrMissingAPIKey = errors.New("gemini api key not found, set GEMINI_API_KEY or GOOGLE_API_KEY")

type ClientConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

type ClientOption func(*ClientConfig)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *ClientConfig) {
		c.APIKey = apiKey
	}
}

// WithBaseURL overrides the API endpoint. ws:// and wss:// URLs are used
// as-is for live connections.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		c.BaseURL = baseURL
	}
}

func WithAPIVersion(version string) ClientOption {
	return func(c *ClientConfig) {
		if version != "" {
			c.APIVersion = version
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ClientConfig) {
		c.HTTPClient = client
	}
}

// NewGenAIClient builds a Gemini API client whose HTTP calls are traced.
// The API key falls back to GEMINI_API_KEY, then GOOGLE_API_KEY.
func NewGenAIClient(ctx context.Context, opts ...ClientOption) (*genai.Client, error) {
	config := ClientConfig{APIVersion: DefaultAPIVersion}
	for _, opt := range opts {
		opt(&config)
	}

	if config.APIKey == "" {
		config.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    config.BaseURL,
			APIVersion: config.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// Client connects interview sessions to a native-audio live model.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(client *genai.Client, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}
}

func (c *Client) Model() string { return c.model }
