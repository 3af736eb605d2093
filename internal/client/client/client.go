package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// TokenSource provides the access token attached to outgoing requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Refresher obtains a new access token after a 401. ok is false when no
// token could be obtained; the original 401 is then returned.
type Refresher interface {
	Refresh(ctx context.Context) (token string, ok bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	mu        sync.RWMutex
	refresher Refresher

	// sf is nil unless refresh de-duplication is on.
	sf *singleflight.Group

	newRequestID func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithSingleFlightRefresh collapses refreshes triggered by concurrent 401s
// into one call to the Refresher.
func WithSingleFlightRefresh() Option {
	return func(c *Client) { c.sf = &singleflight.Group{} }
}

func WithRequestIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newRequestID = fn }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{},
		tokens:       tokens,
		log:          logging.Nop{},
		newRequestID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetRefresher installs the refresher after construction; the refresher
// itself usually needs the client to reach the refresh endpoint.
func (c *Client) SetRefresher(r Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

func (c *Client) getRefresher() Refresher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresher
}

// Do sends req with the stored access token. A 401 triggers one refresh
// and one replay; the replay's outcome is returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, true)
}

// DoAnonymous sends req without a token and without refresh handling.
// Used for the login and refresh endpoints themselves.
func (c *Client) DoAnonymous(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, req, false)
}

func (c *Client) do(ctx context.Context, req *Request, auth bool) (*Response, error) {
	body, contentType, err := req.encode()
	if err != nil {
		return nil, err
	}
	requestID := c.newRequestID()
	log := c.log.With("request_id", requestID, "method", req.Method, "path", req.Path)

	resp, err := c.send(ctx, req, auth, body, contentType, requestID)
	if err == nil || !auth || req.retried || !isStatus(err, http.StatusUnauthorized) {
		c.logResult(ctx, log, resp, err)
		return resp, err
	}

	r := c.getRefresher()
	if r == nil {
		c.logResult(ctx, log, resp, err)
		return nil, err
	}

	log.Info(ctx, "access token rejected, refreshing")
	token, ok := c.refresh(ctx, r)
	if !ok {
		log.Warn(ctx, "token refresh failed")
		return nil, err
	}

	req.retried = true
	req.token = token
	resp, err = c.send(ctx, req, auth, body, contentType, requestID)
	c.logResult(ctx, log.With("retried", true), resp, err)
	return resp, err
}

func (c *Client) refresh(ctx context.Context, r Refresher) (string, bool) {
	if c.sf == nil {
		return r.Refresh(ctx)
	}
	v, err, _ := c.sf.Do("refresh", func() (any, error) {
		token, ok := r.Refresh(ctx)
		if !ok {
			return "", errRefreshFailed
		}
		return token, nil
	})
	if err != nil {
		return "", false
	}
	return v.(string), true
}

var errRefreshFailed = errors.New("refresh failed")

func (c *Client) send(ctx context.Context, req *Request, auth bool, body []byte, contentType, requestID string) (*Response, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if hr.Header.Get(common.ContentTypeHeaderName) == "" && contentType != "" {
		hr.Header.Set(common.ContentTypeHeaderName, contentType)
	}
	hr.Header.Set(common.RequestIDHeaderName, requestID)

	if auth {
		token := req.token
		if token == "" && c.tokens != nil {
			token, err = c.tokens.AccessToken(ctx)
			if err != nil {
				return nil, fmt.Errorf("read access token: %w", err)
			}
		}
		if token != "" {
			hr.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	res, err := c.http.Do(hr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: data}
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: data}, nil
}

func (c *Client) logResult(ctx context.Context, log logging.Logger, resp *Response, err error) {
	switch {
	case err == nil:
		log.Debug(ctx, "request done", "status", resp.StatusCode)
	case errors.Is(err, ErrUnavailable):
		log.Warn(ctx, "request failed", "error", err)
	default:
		log.Debug(ctx, "request rejected", "error", err)
	}
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
