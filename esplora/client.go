package esplora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/AmmannChristian/go-esplora/config"
	"github.com/AmmannChristian/go-esplora/httpclient"
	"github.com/AmmannChristian/go-esplora/oauth2client"
)

const (
	defaultTimeout      = httpclient.DefaultTimeout
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// Logger is the logging interface shared with oauth2client. It also satisfies
// retryablehttp.Logger, so retries are reported through the same sink.
type Logger = oauth2client.Logger

// Client is a typed client for the Esplora REST API.
//
// Every request asks the configured TokenSource for a bearer token. With a public-mode
// TokenManager (or no TokenSource at all) requests are sent without Authorization.
// Redirects are not followed. Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *retryablehttp.Client
	tokens  httpclient.TokenSource
	logger  Logger
}

type tlsOptions struct {
	caFile, certFile, keyFile string
}

type options struct {
	tokens      httpclient.TokenSource
	credentials *oauth2client.Credentials
	credCtx     context.Context

	httpClient *http.Client
	transport  http.RoundTripper
	tls        *tlsOptions
	skipVerify bool

	timeout time.Duration
	retries int
	logger  Logger
}

// Option configures a Client.
type Option func(*options)

// WithTokenSource sets the bearer token source, typically an *oauth2client.TokenManager.
// It replaces WithCredentials.
func WithTokenSource(tokens httpclient.TokenSource) Option {
	return func(o *options) {
		o.tokens = tokens
		o.credentials = nil
	}
}

// WithCredentials authenticates with the client-credentials grant. The TokenManager reaches
// the token endpoint over the client's own transport, TLS settings and timeout. ctx is its
// fallback context. It replaces WithTokenSource.
func WithCredentials(ctx context.Context, creds oauth2client.Credentials) Option {
	return func(o *options) {
		o.credentials = &creds
		o.credCtx = ctx
		o.tokens = nil
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped so that the
// Authorization header is still attached. TLS, transport and timeout options are ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport sets the base RoundTripper of the default HTTP client. TLS options do not
// apply to it.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithTLS sets the CA bundle used to verify the API and token endpoint and, for mTLS, the
// client certificate pair. Empty paths are skipped.
func WithTLS(caFile, certFile, keyFile string) Option {
	return func(o *options) {
		o.tls = &tlsOptions{caFile: caFile, certFile: certFile, keyFile: keyFile}
	}
}

// WithInsecureSkipVerify disables server certificate verification. Development only.
func WithInsecureSkipVerify() Option {
	return func(o *options) {
		o.skipVerify = true
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetries enables up to n retries of GET requests that failed with a transport error,
// 429 or 5xx. Authorization failures are never retried. Default is 0.
func WithRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithLogger sets a logger for request failures, retries and token refreshes.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a client for the API rooted at baseURL, e.g. "https://blockstream.info/api/".
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(baseURL, o)
}

// NewFromConfig creates a client from loaded configuration. With credentials configured, an
// authenticated TokenManager is created using ctx as its fallback context; otherwise the client
// runs against the public API. Options override the configured values.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("esplora: config is nil")
	}

	o := options{
		timeout:    cfg.HTTPTimeout,
		retries:    cfg.MaxRetries,
		skipVerify: cfg.TLS.InsecureSkipVerify,
	}
	if o.timeout <= 0 {
		o.timeout = defaultTimeout
	}
	if cfg.TLS.Enabled() {
		o.tls = &tlsOptions{caFile: cfg.TLS.CAFile, certFile: cfg.TLS.CertFile, keyFile: cfg.TLS.KeyFile}
	}
	if cfg.Authenticated() {
		WithCredentials(ctx, cfg.Credentials())(&o)
	}
	for _, opt := range opts {
		opt(&o)
	}

	return newClient(cfg.BaseURL, o)
}

func newClient(baseURL string, o options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("esplora: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("esplora: invalid base URL %q: scheme and host required", baseURL)
	}
	// Relative endpoint paths resolve below the last path segment only with a trailing slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	hc, tokens, err := o.buildHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("esplora: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = hc
	rc.RetryMax = o.retries
	rc.RetryWaitMin = defaultRetryWaitMin
	rc.RetryWaitMax = defaultRetryWaitMax
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if o.logger != nil {
		rc.Logger = o.logger
	}

	return &Client{
		baseURL: u,
		http:    rc,
		tokens:  tokens,
		logger:  o.logger,
	}, nil
}

func (o *options) tokenOptions(extra ...oauth2client.Option) []oauth2client.Option {
	if o.logger != nil {
		extra = append(extra, oauth2client.WithLogger(o.logger))
	}
	return extra
}

// buildHTTPClient returns the client requests are dispatched with and the token source
// authorizing them.
func (o *options) buildHTTPClient() (*http.Client, httpclient.TokenSource, error) {
	if o.httpClient != nil {
		tokens := o.tokens
		if o.credentials != nil {
			tm, err := oauth2client.NewTokenManager(o.credCtx, *o.credentials,
				o.tokenOptions(oauth2client.WithHTTPClient(o.httpClient))...)
			if err != nil {
				return nil, nil, err
			}
			tokens = tm
		}
		if tokens == nil {
			tokens = oauth2client.NewPublicTokenManager()
		}
		wrapped := *o.httpClient
		wrapped.Transport = httpclient.NewOAuth2Transport(tokens, o.httpClient.Transport)
		return &wrapped, tokens, nil
	}

	b := httpclient.NewBuilder().
		WithTimeout(o.timeout).
		WithoutRedirects()
	if o.transport != nil {
		b.WithBaseTransport(o.transport)
	}
	if o.tls != nil {
		b.WithTLS(o.tls.caFile, o.tls.certFile, o.tls.keyFile)
	}
	if o.skipVerify {
		b.WithInsecureSkipVerify()
	}
	switch {
	case o.credentials != nil:
		b.WithCredentials(o.credCtx, *o.credentials, o.tokenOptions()...)
	case o.tokens != nil:
		b.WithTokenSource(o.tokens)
	default:
		b.WithTokenSource(oauth2client.NewPublicTokenManager())
	}

	hc, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return hc, b.TokenSource(), nil
}

// Authenticated reports whether requests are authorized with client-credentials tokens.
// Token sources other than *oauth2client.TokenManager are assumed to authenticate.
func (c *Client) Authenticated() bool {
	if a, ok := c.tokens.(interface{ Authenticated() bool }); ok {
		return a.Authenticated()
	}
	return true
}

// CheckToken obtains a token the way the next request would, without calling the API.
// It reports false with a nil error in public mode.
func (c *Client) CheckToken(ctx context.Context) (bool, error) {
	_, ok, err := c.tokens.GetTokenWithContext(ctx)
	return ok, err
}

type noRetryKey struct{}

// checkRetry applies the default policy except for non-idempotent requests and
// authorization failures, which are returned immediately.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if oauth2client.IsAuthError(err) {
		return false, err
	}
	if noRetry, _ := ctx.Value(noRetryKey{}).(bool); noRetry {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
	Path       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("esplora: %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("esplora: %s: status %d: %s", e.Path, e.StatusCode, body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAuthorizationError reports whether err was caused by a failure to obtain an access token,
// as opposed to a failed API call.
func IsAuthorizationError(err error) bool {
	return oauth2client.IsAuthError(err)
}

// endpoint joins path segments, escaping each one, into a path relative to the base URL.
func endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("esplora: invalid path %q: %w", path, err)
	}
	target := c.baseURL.ResolveReference(ref)

	var reqBody any
	if body != nil {
		reqBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("esplora: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil && !IsAuthorizationError(err) {
			c.logger.Printf("esplora: %s %s failed: %v", method, path, err)
		}
		return nil, fmt.Errorf("esplora: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("esplora: read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.Printf("esplora: %s %s returned status %d", method, path, resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data), Path: path}
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("esplora: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) postText(ctx context.Context, path, body string) (string, error) {
	ctx = context.WithValue(ctx, noRetryKey{}, true)
	data, err := c.do(ctx, http.MethodPost, path, []byte(body))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
