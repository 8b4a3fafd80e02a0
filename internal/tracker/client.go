// Package tracker is the issue-tracker collaborator: a minimal GitHub
// REST v3 client covering exactly what the pipeline needs — paginated
// issue listing for one fixed owner/repository, adding labels, and
// editing an issue's state.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tweaklab/compatdex/pkg/errors"
)

const (
	defaultBaseURL = "https://api.github.com"
	serviceName    = "github"
	userAgent      = "compatdex"

	// DefaultHTTPTimeout bounds every tracker request.
	DefaultHTTPTimeout = 30 * time.Second
)

// Client is a GitHub issues client bound to one owner/repository.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	owner   string
	repo    string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the API token used for authentication.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// New creates a tracker client for the given owner and repository.
func New(owner, repo string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: defaultBaseURL,
		owner:   owner,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API request, decoding a JSON response into out when out
// is non-nil, and returns the response headers for pagination.
func (c *Client) do(ctx context.Context, method, url string, body, out any) (http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(serviceName, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &errors.APIError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(msg)),
			Endpoint:   url,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, errors.WrapParse("json", "response body", err)
		}
	}

	return resp.Header, nil
}

// issueURL builds the API URL for one issue resource path.
func (c *Client) issueURL(number int, suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s/issues/%d%s", c.baseURL, c.owner, c.repo, number, suffix)
}
