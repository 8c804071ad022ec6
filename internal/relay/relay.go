// Package relay forwards a question to the /chat endpoint and returns the
// answer. It is the bot's only link to the answer pipeline.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNoURL is returned when no endpoint is configured.
var ErrNoURL = errors.New("relay: API URL not configured")

// maxResponse bounds how much of a response body is read.
const maxResponse = 1 << 20

// StatusError is a non-200 reply from the endpoint.
type StatusError struct {
	Code    int
	Message string // the {"error"} field, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d", e.Code)
}

// Client posts questions to one endpoint with a hard timeout and no retry.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New returns a client for url. The timeout bounds the whole exchange.
func New(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

// Ask sends question and returns the answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.url == "" {
		return "", ErrNoURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("encode question: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("Relay response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start).Round(time.Millisecond))

	var out chatResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Message: out.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	switch {
	case out.Answer != "":
		return out.Answer, nil
	case out.Error != "":
		return out.Error, nil
	default:
		return "No answer.", nil
	}
}
