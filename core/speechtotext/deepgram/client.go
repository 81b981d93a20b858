package deepgram

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultBaseURL  = "wss://api.deepgram.com/v1/listen"
	defaultModel    = "nova-3"
	defaultLanguage = "en-US"

	apiKeyEnv = "DEEPGRAM_API_KEY"
)

var ErrMissingAPIKey = errors.New("deepgram api key not found")

// TranscriptionClient streams caller audio to Deepgram's live listen API.
// A client serves one stream at a time.
type TranscriptionClient struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	dialer   *websocket.Dialer

	connMu    sync.Mutex
	conn      *websocket.Conn
	lastMsgTs time.Time
	cancel    context.CancelFunc

	// accumulatedTranscript and unendedSegment are only touched by the read
	// loop.
	accumulatedTranscript string
	unendedSegment        bool
}

type ClientOption func(*TranscriptionClient)

// NewTranscriptionClient reads the API key from DEEPGRAM_API_KEY unless one
// is given with WithAPIKey.
func NewTranscriptionClient(opts ...ClientOption) (*TranscriptionClient, error) {
	client := &TranscriptionClient{
		baseURL:  defaultBaseURL,
		model:    defaultModel,
		language: defaultLanguage,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		client.apiKey = os.Getenv(apiKeyEnv)
	}
	if client.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return client, nil
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *TranscriptionClient) {
		c.apiKey = apiKey
	}
}

// WithBaseURL points the client at a different listen endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *TranscriptionClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithModel(model string) ClientOption {
	return func(c *TranscriptionClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithLanguage(language string) ClientOption {
	return func(c *TranscriptionClient) {
		if language != "" {
			c.language = language
		}
	}
}

func WithDialer(dialer *websocket.Dialer) ClientOption {
	return func(c *TranscriptionClient) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}
