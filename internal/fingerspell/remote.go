package fingerspell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RemoteConfig configures the HTTP resolver
type RemoteConfig struct {
	URL         string        // Full URL of the transcribe endpoint
	Timeout     time.Duration // Per request timeout
	MaxFailures uint32        // Consecutive failures before the breaker opens
	OpenTimeout time.Duration // How long the breaker stays open
	HTTPClient  *http.Client  // Optional client override
	Logger      *zap.Logger
}

// DefaultRemoteConfig returns defaults for talking to a local signopsis server
func DefaultRemoteConfig() *RemoteConfig {
	return &RemoteConfig{
		URL:         "http://localhost:8080/api/transcribe",
		Timeout:     5 * time.Second,
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// RemoteResolver delegates resolution to the transcribe endpoint
type RemoteResolver struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type transcribeRequest struct {
	Text string `json:"text"`
}

type transcribeResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type wireUnit struct {
	Char      string `json:"char"`
	Type      string `json:"type"`
	ImagePath string `json:"imagePath"`
}

// NewRemoteResolver creates a resolver for the configured endpoint
func NewRemoteResolver(config *RemoteConfig) (*RemoteResolver, error) {
	if config == nil {
		config = DefaultRemoteConfig()
	}
	if config.URL == "" {
		return nil, fmt.Errorf("transcribe URL is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = DefaultRemoteConfig().MaxFailures
	}

	settings := gobreaker.Settings{
		Name:    "transcribe",
		Timeout: config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the endpoint's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &RemoteResolver{
		url:     config.URL,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}, nil
}

// Name returns the resolver name
func (r *RemoteResolver) Name() string {
	return "remote"
}

// Resolve posts the word to the transcribe endpoint
func (r *RemoteResolver) Resolve(ctx context.Context, word string) ([]LetterUnit, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.transcribe(ctx, word)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransportError{Message: "circuit open", Err: err}
		}
		return nil, err
	}
	return result.([]LetterUnit), nil
}

func (r *RemoteResolver) transcribe(ctx context.Context, word string) ([]LetterUnit, error) {
	body, err := json.Marshal(transcribeRequest{Text: word})
	if err != nil {
		return nil, &InternalError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	var payload transcribeResponse
	decodeErr := json.Unmarshal(data, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		if decodeErr == nil && payload.Error != "" {
			message = payload.Error
		}
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "malformed response", Err: decodeErr}
	}

	units, err := decodeUnits(payload.Result)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}

	return units, nil
}

// decodeUnits validates the result field of a transcribe response
func decodeUnits(raw json.RawMessage) ([]LetterUnit, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("result is missing or not an array")
	}

	var wire []wireUnit
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	units := make([]LetterUnit, 0, len(wire))
	for i, w := range wire {
		kind, err := ParseKind(w.Type)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if w.ImagePath == "" {
			return nil, fmt.Errorf("entry %d: empty imagePath", i)
		}
		units = append(units, LetterUnit{Char: w.Char, Kind: kind, ImagePath: w.ImagePath})
	}

	return units, nil
}
