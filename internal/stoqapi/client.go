package stoqapi

import (
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

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/five82/stoq/internal/catalog"
)

// ProductAPI is the set of product operations the client offers.
// It is implemented by *Client and can be faked in tests.
type ProductAPI interface {
	ListProducts(ctx context.Context, query ListQuery) (catalog.ListResponse, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.UpdateInput) (catalog.Product, error)
}

// Ensure Client implements ProductAPI at compile time.
var _ ProductAPI = (*Client)(nil)

// ErrInvalidID is returned before any request when a product id is not a UUID.
var ErrInvalidID = errors.New("invalid product id")

const (
	DefaultAPIURL    = "http://127.0.0.1:8000"
	productsPath     = "/api/v1/products"
	defaultUserAgent = "stoq/0.1"
	defaultTimeout   = 5 * time.Second
	maxErrorBody     = 4 << 10
)

// Client talks to the product HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *retryablehttp.Client
	userAgent string
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	retryMax  int
	userAgent string
	logger    zerolog.Logger
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetryMax sets how many times connection errors and 5xx responses are
// retried. Zero means a single attempt.
func WithRetryMax(n int) Option {
	return func(o *clientOptions) { o.retryMax = max(0, n) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		if ua = strings.TrimSpace(ua); ua != "" {
			o.userAgent = ua
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	o := clientOptions{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: o.timeout}
	rc.RetryMax = o.retryMax
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = &retryLogger{log: o.logger}
	rc.ErrorHandler = keepLastResponse

	return &Client{
		baseURL:   base,
		http:      rc,
		userAgent: o.userAgent,
		log:       o.logger,
	}, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListQuery selects one page of products.
type ListQuery struct {
	Page int
	Size int
	Name string
}

// ListProducts fetches one page of products. A blank name is not sent.
func (c *Client) ListProducts(ctx context.Context, query ListQuery) (catalog.ListResponse, error) {
	if c == nil {
		return catalog.ListResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(max(1, query.Page)))
	values.Set("size", strconv.Itoa(max(1, query.Size)))
	if name := strings.TrimSpace(query.Name); name != "" {
		values.Set("name", name)
	}
	rel := &url.URL{Path: productsPath, RawQuery: values.Encode()}
	var payload catalog.ListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return catalog.ListResponse{}, fmt.Errorf("fetch products: %w", err)
	}
	return payload, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if c == nil {
		return catalog.Product{}, fmt.Errorf("client is nil")
	}
	rel, err := productURL(id)
	if err != nil {
		return catalog.Product{}, err
	}
	var payload catalog.Product
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return catalog.Product{}, fmt.Errorf("fetch product: %w", err)
	}
	return payload, nil
}

// CreateProduct posts a new product and returns it as stored.
func (c *Client) CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error) {
	if c == nil {
		return catalog.Product{}, fmt.Errorf("client is nil")
	}
	var payload catalog.Product
	if err := c.doURL(ctx, http.MethodPost, &url.URL{Path: productsPath}, in, &payload); err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	return payload, nil
}

// UpdateProduct applies a partial update. Servers that answer with an empty
// body are followed by a fetch of the product.
func (c *Client) UpdateProduct(ctx context.Context, id string, in catalog.UpdateInput) (catalog.Product, error) {
	if c == nil {
		return catalog.Product{}, fmt.Errorf("client is nil")
	}
	rel, err := productURL(id)
	if err != nil {
		return catalog.Product{}, err
	}
	var payload *catalog.Product
	if err := c.doURL(ctx, http.MethodPut, rel, in, &payload); err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}
	if payload == nil || payload.ID == "" {
		return c.GetProduct(ctx, id)
	}
	return *payload, nil
}

func productURL(id string) (*url.URL, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return &url.URL{Path: productsPath + "/" + parsed.String()}, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var raw any
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		raw = encoded
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, reqURL.String(), raw)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", reqURL.String()).Msg("api request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("url", reqURL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Method:     method,
			Path:       rel.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("path", rel.Path).Str("detail", apiErr.Detail()).Msg("api returned error")
		return apiErr
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// keepLastResponse hands the final response back to the caller once retries
// are exhausted so its status and body can be reported.
func keepLastResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
