package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/pkg/config"
	"github.com/goatcast/goatcast/pkg/logging"
	"github.com/goatcast/goatcast/pkg/telemetry"
)

// ErrUpstream marks a non-2xx response from the content API
var ErrUpstream = errors.New("content API error")

// ErrNotFound marks a response that decoded without the requested entity
var ErrNotFound = errors.New("not found in response")

// Client wraps the third-party content API. All endpoints are read-only
// and authenticated with a static API key header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new content API client
func New(cfg *config.ContentConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("content_api_url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("content_api_key is required")
	}

	logger := logging.GetLogger().With(zap.String("component", "content-client"))

	client := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}

	logger.Info("Content API client initialized", zap.String("url", cfg.BaseURL))

	return client, nil
}

// Get performs an authenticated GET against the given API path and returns
// the raw response body. Non-2xx responses are errors; the body is not
// interpreted here.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.get")
	defer span.End()

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content API response: %w", err)
	}

	return body, nil
}

// FetchPage fetches one page of casts from the given feed path
func (c *Client) FetchPage(ctx context.Context, path string, params url.Values) (Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.fetch_page")
	defer span.End()

	raw, err := c.Get(ctx, path, params)
	if err != nil {
		return Page{}, err
	}
	return ExtractPage(raw), nil
}

// FetchCast fetches a single cast by hash
func (c *Client) FetchCast(ctx context.Context, hash string) (*Cast, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.fetch_cast")
	defer span.End()

	if hash == "" {
		return nil, fmt.Errorf("cast hash is required")
	}

	params := url.Values{}
	params.Set("identifier", hash)
	params.Set("type", "hash")

	raw, err := c.Get(ctx, "/cast", params)
	if err != nil {
		return nil, err
	}

	cast := ExtractCast(raw)
	if cast == nil {
		return nil, fmt.Errorf("cast %s: %w", hash, ErrNotFound)
	}
	return cast, nil
}

// FetchReplies fetches one page of direct replies for a cast via the
// conversation endpoint.
func (c *Client) FetchReplies(ctx context.Context, hash, cursor string) (Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.fetch_replies")
	defer span.End()

	if hash == "" {
		return Page{}, fmt.Errorf("cast hash is required")
	}

	params := url.Values{}
	params.Set("identifier", hash)
	params.Set("type", "hash")
	params.Set("reply_depth", "2")
	params.Set("limit", "20")
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	raw, err := c.Get(ctx, "/cast/conversation", params)
	if err != nil {
		return Page{}, err
	}
	return ExtractReplies(raw), nil
}

// FetchUserByUsername looks up a user by handle
func (c *Client) FetchUserByUsername(ctx context.Context, username, viewerFID string) (*User, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.fetch_user_by_username")
	defer span.End()

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	params := url.Values{}
	params.Set("username", username)
	if viewerFID != "" {
		params.Set("viewer_fid", viewerFID)
	}

	raw, err := c.Get(ctx, "/user/by_username/", params)
	if err != nil {
		return nil, err
	}

	user := ExtractUser(raw)
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	return user, nil
}

// FetchUserCasts fetches one page of a user's own casts, replies included
func (c *Client) FetchUserCasts(ctx context.Context, fid int64, viewerFID, cursor string, limit int) (Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "content.fetch_user_casts")
	defer span.End()

	if fid == 0 {
		return Page{}, fmt.Errorf("fid is required")
	}
	if limit <= 0 {
		limit = 25
	}

	params := url.Values{}
	params.Set("fid", strconv.FormatInt(fid, 10))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("include_replies", "true")
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if viewerFID != "" {
		params.Set("viewer_fid", viewerFID)
	}

	raw, err := c.Get(ctx, "/feed/user/casts", params)
	if err != nil {
		return Page{}, err
	}
	return ExtractPage(raw), nil
}
