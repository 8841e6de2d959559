// Package notion is a small client for the parts of the Notion API the
// synchronizer needs.
package notion

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

	"github.com/vrerv/md-to-notion/pkg/block"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.notion.com/v1"
	DefaultAPIVersion = "2022-06-28"
	DefaultTimeout    = 30 * time.Second
	DefaultRate       = 3.0

	// MaxPageSize is the largest page the list endpoint returns.
	MaxPageSize = 100
)

// Observer is told about every logical API call once it completes.
type Observer interface {
	ObserveCall(op string, elapsed time.Duration, err error)
}

// Config holds client configuration.
type Config struct {
	Token             string
	BaseURL           string
	APIVersion        string
	Timeout           time.Duration
	RequestsPerSecond float64
	Retry             RetryConfig
	HTTPClient        *http.Client
	Observer          Observer
	Logger            *zap.Logger
}

// Client talks to the Notion REST API.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryConfig
	observer   Observer
	log        *zap.Logger
}

// New creates a client, filling unset configuration with defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		apiVersion: cfg.APIVersion,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		retry:      cfg.Retry,
		observer:   cfg.Observer,
		log:        cfg.Logger,
	}
}

// RetrievePage fetches a page's identity and title.
func (c *Client) RetrievePage(ctx context.Context, id string) (Page, error) {
	var obj pageObject
	if err := c.call(ctx, "retrieve_page", http.MethodGet, "/pages/"+url.PathEscape(id), nil, &obj); err != nil {
		return Page{}, err
	}

	title := obj.title()
	if title == "" {
		return Page{}, &MissingTitleError{PageID: id}
	}
	return Page{ID: obj.ID, URL: obj.URL, Title: title}, nil
}

// ListChildren returns one page of the children of a block or page.
func (c *Client) ListChildren(ctx context.Context, id, cursor string) (Children, error) {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(MaxPageSize))
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	var out Children
	path := "/blocks/" + url.PathEscape(id) + "/children?" + q.Encode()
	if err := c.call(ctx, "list_children", http.MethodGet, path, nil, &out); err != nil {
		return Children{}, err
	}
	return out, nil
}

// CreatePage creates a titled page under parentID.
func (c *Client) CreatePage(ctx context.Context, parentID, title string) (Page, error) {
	req := createPageRequest{Parent: pageParent{PageID: parentID}}
	var t titleText
	t.Text.Content = title
	req.Properties.Title = []titleText{t}

	var obj pageObject
	if err := c.call(ctx, "create_page", http.MethodPost, "/pages", req, &obj); err != nil {
		return Page{}, err
	}
	return Page{ID: obj.ID, URL: obj.URL, Title: title}, nil
}

// AppendBlocks appends blocks under parentID, after the block with id after
// when given, and returns the created top-level blocks in order.
func (c *Client) AppendBlocks(ctx context.Context, parentID string, blocks []block.Block, after string) ([]block.Block, error) {
	req := appendRequest{Children: blocks, After: after}

	var out appendResponse
	if err := c.call(ctx, "append_blocks", http.MethodPatch, "/blocks/"+url.PathEscape(parentID)+"/children", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// DeleteBlock moves a block to the trash.
func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	return c.call(ctx, "delete_block", http.MethodDelete, "/blocks/"+url.PathEscape(id), nil, nil)
}

// ArchivePage archives a page together with its sub-pages.
func (c *Client) ArchivePage(ctx context.Context, id string) error {
	return c.call(ctx, "archive_page", http.MethodPatch, "/pages/"+url.PathEscape(id), archiveRequest{Archived: true}, nil)
}

func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.do(ctx, op, method, path, body, out)
	if c.observer != nil {
		c.observer.ObserveCall(op, time.Since(start), err)
	}
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		payload = data
	}

	// A failed write may still have been applied, so only reads are retried
	// on ambiguous failures. Writes are retried when rate limited.
	safe := method == http.MethodGet

	return withRetry(ctx, c.retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("build %s request: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.apiVersion)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.log.Debug("notion request", zap.String("op", op), zap.String("method", method), zap.String("path", path))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retryableIf(safe, fmt.Errorf("%s: %w", op, err), 0)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retryableIf(safe, fmt.Errorf("read %s response: %w", op, err), 0)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			apiErr := decodeAPIError(resp.StatusCode, data)
			if apiErr.Temporary() && (safe || apiErr.Status == http.StatusTooManyRequests) {
				c.log.Debug("notion request will be retried",
					zap.String("op", op), zap.Int("status", resp.StatusCode))
				return retryable(apiErr, retryAfter(resp.Header.Get("Retry-After")))
			}
			return apiErr
		}

		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
		return nil
	})
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	apiErr.Status = status
	return apiErr
}

func retryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// IsNotFound reports whether err means the object does not exist or is not
// shared with the integration.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
