// Package commentapi implements the CommentAPI port over the comment
// service's HTTP/JSON contract.
package commentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ericfisherdev/commentbox/internal/domain/model"
	"github.com/ericfisherdev/commentbox/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommentAPI = (*Client)(nil)

// DefaultTimeout bounds a single request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for the error message.
const maxErrorBody = 4 << 10

// Client talks to a comment service rooted at a base URL.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Client for serverURL with the following transport stack:
//  1. httpcache over a Cache of DefaultCacheEntries (ETag revalidation of thread listings)
//  2. otelhttp (client spans, propagates trace context)
//  3. http.DefaultTransport
func NewClient(serverURL string, timeout time.Duration) (*Client, error) {
	cache, err := NewCache(DefaultCacheEntries)
	if err != nil {
		return nil, err
	}
	return NewClientWithCache(serverURL, timeout, cache)
}

// NewClientWithCache is NewClient with a caller-supplied response cache.
func NewClientWithCache(serverURL string, timeout time.Duration, cache httpcache.Cache) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cacheTransport := httpcache.NewTransport(cache)
	cacheTransport.Transport = otelhttp.NewTransport(http.DefaultTransport)

	return NewClientWithHTTPClient(&http.Client{
		Transport: cacheTransport,
		Timeout:   timeout,
	}, serverURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, serverURL string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parsing server URL %q: scheme must be http or https", serverURL)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(u.String(), "/"),
	}, nil
}

// BaseURL returns the service root this client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// commentJSON is the wire shape of a comment. ID and Time are omitted from
// POST bodies because the service assigns them.
type commentJSON struct {
	ID      int64  `json:"id,omitempty"`
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Time    string `json:"time,omitempty"`
}

// FetchComments retrieves every comment for ref via GET /comment/{ref}.
func (c *Client) FetchComments(ctx context.Context, ref string) ([]model.RemoteComment, error) {
	endpoint := c.baseURL + "/comment/" + url.PathEscape(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request for %s: %w", ref, err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// PostComment sends comment via POST /comment and returns the service's updated
// collection for comment.Ref.
func (c *Client) PostComment(ctx context.Context, comment model.RemoteComment) ([]model.RemoteComment, error) {
	body, err := json.Marshal(commentJSON{
		Ref:     comment.Ref,
		Name:    comment.Name,
		Comment: comment.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding comment for %s: %w", comment.Ref, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/comment", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building post request for %s: %w", comment.Ref, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]model.RemoteComment, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(req, resp)
	}

	// Read to EOF so httpcache can store the body.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	var payload []commentJSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &DecodeError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	comments := make([]model.RemoteComment, 0, len(payload))
	for _, p := range payload {
		comments = append(comments, model.RemoteComment{
			ID:      p.ID,
			Ref:     p.Ref,
			Name:    p.Name,
			Comment: p.Comment,
			Time:    p.Time,
		})
	}

	return comments, nil
}

func newStatusError(req *http.Request, resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(raw))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		message = body.Error
	}

	return &StatusError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
