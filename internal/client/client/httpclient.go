package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/common"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
	"github.com/dmitrijs2005/gophtracker/internal/netx"
	"github.com/google/uuid"
)

// HTTPClient talks to the tracker REST backend with JSON bodies.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	logger       logging.Logger
	newRequestID func() string
	userAgent    string
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithTransport sets the transport below the Authorizer.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.http.Transport = NewAuthorizer(c.tokenSource(), rt) }
}

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) Option {
	return func(c *HTTPClient) { c.newRequestID = fn }
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) { c.userAgent = ua }
}

// NewHTTPClient returns a client for the API rooted at baseURL. Requests
// carry the token from tokens when it has one; tokens may be nil.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	if _, err := netx.JoinURL(baseURL, "/"); err != nil {
		return nil, err
	}

	c := &HTTPClient{
		baseURL:      baseURL,
		http:         &http.Client{Transport: NewAuthorizer(tokens, nil)},
		logger:       logging.Discard(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) tokenSource() TokenSource {
	if a, ok := c.http.Transport.(*Authorizer); ok {
		return a.Source
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user)
	return user, err
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Username: username, Password: password}, &resp)
	return resp, err
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user)
	return user, err
}

func (c *HTTPClient) ListIssues(ctx context.Context, filter models.IssueFilter) (models.IssuePage, error) {
	var page models.IssuePage
	if err := c.do(ctx, http.MethodGet, "/issues", filter.Query(), nil, &page); err != nil {
		return models.IssuePage{}, err
	}
	if page.Items == nil {
		page.Items = []models.Issue{}
	}
	return page, nil
}

func (c *HTTPClient) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	var issue models.Issue
	err := c.do(ctx, http.MethodGet, issuePath(id), nil, nil, &issue)
	return issue, err
}

func (c *HTTPClient) CreateIssue(ctx context.Context, in models.IssueInput) (models.Issue, error) {
	var issue models.Issue
	err := c.do(ctx, http.MethodPost, "/issues", nil, in, &issue)
	return issue, err
}

func (c *HTTPClient) UpdateIssue(ctx context.Context, id string, in models.IssueInput) (models.Issue, error) {
	var issue models.Issue
	err := c.do(ctx, http.MethodPut, issuePath(id), nil, in, &issue)
	return issue, err
}

func (c *HTTPClient) DeleteIssue(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, issuePath(id), nil, nil, nil)
}

func issuePath(id string) string {
	return "/issues/" + url.PathEscape(id)
}

// do sends one request and decodes a 2xx JSON body into out (when out is
// non-nil and the body is not empty). There are no retries.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u, err := netx.JoinURL(c.baseURL, path)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	requestID := c.newRequestID()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err, "duration", time.Since(start))
		return &RequestError{Method: method, Path: path, Err: unwrapURLError(err)}
	}
	defer netx.DrainAndClose(resp.Body)

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := netx.ReadLimited(resp.Body, netx.MaxErrorBody)
		return &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: detailMessage(raw)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// unwrapURLError drops the *url.Error wrapper, whose text repeats the
// method and URL already carried by RequestError.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
