package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/AmmannChristian/go-esplora/oauth2client"
)

// DefaultTimeout is the request timeout of clients built without WithTimeout.
const DefaultTimeout = 30 * time.Second

// tlsFiles names PEM files for server verification and client authentication.
// An empty caFile keeps the system roots. certFile and keyFile are only valid together.
type tlsFiles struct {
	caFile   string
	certFile string
	keyFile  string
}

// Builder assembles an *http.Client for the Esplora API: transport security, timeout,
// redirect policy and bearer authorization.
type Builder struct {
	tokens TokenSource

	credentials *oauth2client.Credentials
	credCtx     context.Context
	credOpts    []oauth2client.Option

	certs      *tlsFiles
	skipVerify bool

	timeout     time.Duration
	base        http.RoundTripper
	noRedirects bool
}

// NewBuilder returns a Builder with a 30s timeout that follows redirects.
func NewBuilder() *Builder {
	return &Builder{timeout: DefaultTimeout}
}

// WithTokenSource authorizes requests with tokens from tokens. A public-mode TokenManager
// is accepted and results in unauthenticated requests.
func (b *Builder) WithTokenSource(tokens TokenSource) *Builder {
	b.tokens = tokens
	b.credentials = nil
	return b
}

// WithCredentials makes Build create a TokenManager for creds. Token requests use the same
// transport and timeout as API requests but never carry the Authorization header.
// ctx is the TokenManager's fallback context; opts are passed through (logger, clock).
func (b *Builder) WithCredentials(ctx context.Context, creds oauth2client.Credentials, opts ...oauth2client.Option) *Builder {
	b.credentials = &creds
	b.credCtx = ctx
	b.credOpts = opts
	b.tokens = nil
	return b
}

// WithTLS sets the CA bundle and, for mTLS, the client certificate pair. Empty paths are skipped.
func (b *Builder) WithTLS(caFile, certFile, keyFile string) *Builder {
	b.certs = &tlsFiles{caFile: caFile, certFile: certFile, keyFile: keyFile}
	return b
}

// WithInsecureSkipVerify disables server certificate verification. Development only.
func (b *Builder) WithInsecureSkipVerify() *Builder {
	b.skipVerify = true
	return b
}

// WithTimeout sets the overall timeout of every request, token requests included.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithBaseTransport replaces the cloned default transport. TLS options are not applied to it.
func (b *Builder) WithBaseTransport(transport http.RoundTripper) *Builder {
	b.base = transport
	return b
}

// WithoutRedirects returns 3xx responses to the caller instead of following them.
func (b *Builder) WithoutRedirects() *Builder {
	b.noRedirects = true
	return b
}

// Build returns the configured client.
//
// With WithCredentials the TokenManager is created on the first Build and then kept, so
// clients built later from the same Builder share its token cache. It is available from
// TokenSource.
func (b *Builder) Build() (*http.Client, error) {
	transport, err := b.transport()
	if err != nil {
		return nil, err
	}

	if b.credentials != nil {
		opts := append([]oauth2client.Option{
			oauth2client.WithHTTPClient(&http.Client{Transport: transport, Timeout: b.timeout}),
		}, b.credOpts...)

		tm, err := oauth2client.NewTokenManager(b.credCtx, *b.credentials, opts...)
		if err != nil {
			return nil, fmt.Errorf("httpclient: token manager: %w", err)
		}
		b.tokens, b.credentials = tm, nil
	}

	client := &http.Client{Transport: transport, Timeout: b.timeout}
	if b.tokens != nil {
		client.Transport = NewOAuth2Transport(b.tokens, transport)
	}
	if b.noRedirects {
		client.CheckRedirect = useLastResponse
	}
	return client, nil
}

// TokenSource returns the token source requests are authorized with, or nil.
func (b *Builder) TokenSource() TokenSource {
	return b.tokens
}

func useLastResponse(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (b *Builder) transport() (http.RoundTripper, error) {
	if b.base != nil {
		return b.base, nil
	}

	tlsConfig, err := b.tlsConfig()
	if err != nil {
		return nil, fmt.Errorf("httpclient: TLS config failed: %w", err)
	}

	def, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		// Replaced default transports (test stubs) are used unchanged.
		return http.DefaultTransport, nil
	}
	t := def.Clone()
	t.TLSClientConfig = tlsConfig
	return t, nil
}

func (b *Builder) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: b.skipVerify, // #nosec G402
	}
	files := b.certs
	if files == nil {
		return cfg, nil
	}

	if files.caFile != "" {
		pool, err := loadCertPool(files.caFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	switch {
	case files.certFile != "" && files.keyFile != "":
		cert, err := tls.LoadX509KeyPair(files.certFile, files.keyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	case files.certFile != "" || files.keyFile != "":
		return nil, errors.New("client certificate and key must be configured together")
	}
	return cfg, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

// NewHTTPClient returns a client with the default timeout that authorizes requests with tokens.
// Use Builder for anything else.
//
//	tm, err := oauth2client.NewTokenManager(ctx, creds)
//	client := httpclient.NewHTTPClient(tm)
//	resp, err := client.Get("https://blockstream.info/api/blocks/tip/height")
func NewHTTPClient(tokens TokenSource) *http.Client {
	return &http.Client{
		Transport: NewOAuth2Transport(tokens, nil),
		Timeout:   DefaultTimeout,
	}
}
