package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
	"go.uber.org/zap"
)

// Client dispatches requests to the marketplace API. It attaches the
// bearer token from the injected store and normalizes every failure into
// an *Error.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  tokenstore.Store
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client rooted at baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, tokens tokenstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the credential store the client reads on every request.
func (c *Client) Tokens() tokenstore.Store { return c.tokens }

// ImageURL resolves a product image_path for display.
func (c *Client) ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return c.baseURL + PathUploads + strings.TrimLeft(imagePath, "/")
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return setupError(fmt.Errorf("encode request body: %w", err))
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, form *MultipartForm, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return setupError(fmt.Errorf("encode multipart body: %w", err))
	}
	return c.do(ctx, http.MethodPost, path, nil, body, contentType, out)
}

// GetPage fetches a paged list. Servers that return a bare JSON array are
// wrapped into a PaginatedResponse using the requested page and limit.
func GetPage[T any](ctx context.Context, c *Client, path string, page, limit int) (*PaginatedResponse[T], error) {
	query := PageQuery(page, limit)
	var raw []byte
	if err := c.Get(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, serverError(http.StatusOK, "malformed response body")
		}
		l, _ := strconv.Atoi(query.Get("limit"))
		skip, _ := strconv.Atoi(query.Get("skip"))
		return &PaginatedResponse[T]{Items: items, Total: len(items), Page: skip/l + 1, Limit: l}, nil
	}

	var resp PaginatedResponse[T]
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, serverError(http.StatusOK, "malformed response body")
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return setupError(err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return setupError(err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return setupError(fmt.Errorf("read token: %w", err))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		c.log.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", string(apiErr.Kind)),
			zap.Error(err),
		)
		return apiErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		var eb ErrorBody
		_ = json.Unmarshal(data, &eb)
		return serverError(resp.StatusCode, eb.Text())
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}
