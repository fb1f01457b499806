// Package hubapi is a thin client for the KoperasiHub REST API, which owns
// products, options, variants, stock, categories and warehouses.
package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	maxResponseBytes = 4 << 20
	fallbackMessage  = "request failed"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  logger.ZapLogger
}

func NewClient(cfg *Config, log logger.ZapLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// APIError is a non-success answer from the hub. Message is safe to show
// to the operator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hub api: status %d: %s", e.StatusCode, e.Message)
}

// ErrMalformedResponse marks a success response whose body could not be narrowed.
var ErrMalformedResponse = errors.New("hub api: malformed response")

var (
	errEmptyBody = errors.New("empty body")
	errNotJSON   = errors.New("body is not json")
)

// ID accepts ids encoded either as JSON numbers or numeric strings.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id %s: %w", b, err)
	}
	*id = ID(n)
	return nil
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}

	c.logger.Debug("hub api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	var env envelope
	var decodeErr error
	switch trimmed := bytes.TrimSpace(raw); {
	case len(trimmed) == 0:
		decodeErr = errEmptyBody
	case trimmed[0] == '{':
		decodeErr = json.Unmarshal(trimmed, &env)
	case trimmed[0] != '[':
		decodeErr = errNotJSON
	}

	if resp.StatusCode >= http.StatusBadRequest || (env.Success != nil && !*env.Success) {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(env, decodeErr)}
	}
	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	data := env.Data
	if len(data) == 0 || string(data) == "null" {
		// Some endpoints answer with the bare record.
		data = raw
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func errorMessage(env envelope, decodeErr error) string {
	if decodeErr == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return fallbackMessage
}
