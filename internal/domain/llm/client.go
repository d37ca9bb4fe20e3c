// Package llm delegates statement extraction to a local language-model
// completion endpoint. Deterministic parsers are brittle against layouts
// they have never seen; this path trades determinism for coverage and pays
// for it with defensive repair of the model output.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Typed failure causes. Callers map each to a distinct user-facing error.
var (
	ErrTimeout           = errors.New("model endpoint timed out")
	ErrConnectionRefused = errors.New("model endpoint unreachable")
	ErrMalformedResponse = errors.New("model returned malformed response")
	ErrEmptyResult       = errors.New("model returned no transactions")
)

// Config holds the completion endpoint settings.
type Config struct {
	// BaseURL of the Ollama-compatible server, e.g. "http://localhost:11434".
	BaseURL string
	Model   string

	// Timeout bounds one extraction completion call.
	Timeout time.Duration
	// CategorizeTimeout bounds the much smaller categorization calls.
	CategorizeTimeout time.Duration

	// MaxRetries applies to network failures only.
	MaxRetries int
	// ChunkSize is the character count above which statement text is split.
	ChunkSize int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:11434",
		Model:             "mistral",
		Timeout:           120 * time.Second,
		CategorizeTimeout: 30 * time.Second,
		MaxRetries:        3,
		ChunkSize:         8000,
	}
}

// Client talks to the completion endpoint.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger *slog.Logger
}

// NewClient builds a client, filling zero config fields with defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CategorizeTimeout == 0 {
		cfg.CategorizeTimeout = def.CategorizeTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Complete sends one prompt and returns the raw model text. Network
// failures are retried with exponential backoff; everything else fails
// immediately.
func (c *Client) Complete(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.1,
			TopP:        0.9,
			NumPredict:  4096,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	bo := retryBackOff()

	var raw string
	attempt := 0
	operation := func() error {
		attempt++
		raw, err = c.post(ctx, body, timeout)
		if err == nil {
			return nil
		}
		if isNetworkError(err) {
			c.logger.Warn("model call failed, retrying", "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	retryPolicy := backoff.WithMaxRetries(bo, uint64(c.cfg.MaxRetries))
	if err := backoff.Retry(operation, backoff.WithContext(retryPolicy, ctx)); err != nil {
		return "", err
	}
	return raw, nil
}

// retryBackOff waits 2s, 4s, 8s between attempts.
func retryBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	return bo
}

func (c *Client) post(ctx context.Context, body []byte, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, resp.StatusCode, payload)
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return envelope.Response, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
}

// isNetworkError reports whether the failure is worth retrying.
func isNetworkError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnectionRefused)
}
