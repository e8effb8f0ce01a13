// Package backupclient talks to the server's /api/backups endpoints. The CLI
// uses it to push locally encrypted envelopes and pull them back; envelopes
// are passed through byte for byte.
package backupclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var (
	// ErrUnauthorized is returned for a missing, expired or rejected token.
	ErrUnauthorized = errors.New("backup server rejected the token")

	// ErrNotFound is returned when no backup matches the request.
	ErrNotFound = errors.New("backup not found")
)

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("backup server returned %d: %s (trace %s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("backup server returned %d: %s", e.StatusCode, e.Message)
}

// Summary describes a stored backup without its envelope.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorBody struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id"`
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Retries applies to reads only; a retried push could store a duplicate.
	Retries int
}

// Client is a backup API client. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a Client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backup server URL cannot be empty")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: token cannot be empty", ErrUnauthorized)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:   client,
		logger: logger.With("component", "backup_client"),
	}, nil
}

// Push uploads an encrypted envelope.
func (c *Client) Push(ctx context.Context, envelope []byte) (*Summary, error) {
	if !json.Valid(envelope) {
		return nil, fmt.Errorf("envelope is not valid JSON")
	}

	var summary Summary
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(envelope).
		SetResult(&summary).
		Post("/api/backups")
	if err != nil {
		return nil, fmt.Errorf("push backup: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	c.logger.Info("backup pushed", "backup_id", summary.ID, "size_bytes", summary.SizeBytes)
	return &summary, nil
}

// List returns the stored backups, newest first.
func (c *Client) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/backups")
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest downloads the newest envelope verbatim.
func (c *Client) Latest(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, "/api/backups/latest")
}

// Get downloads one envelope verbatim.
func (c *Client) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return c.fetch(ctx, "/api/backups/"+id.String())
}

// Delete removes one backup.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/backups/" + id.String())
	if err != nil {
		return fmt.Errorf("delete backup: %w", err)
	}
	return checkResponse(resp)
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch backup: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	c.logger.Debug("backup fetched", "backup_id", resp.Header().Get("X-Backup-ID"), "size_bytes", len(resp.Body()))
	return resp.Body(), nil
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg, TraceID: body.TraceID}
}
