package oauth2client

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// ExpiryBuffer is subtracted from the provider's expires_in so that a token handed
// out is never about to expire while in flight.
const ExpiryBuffer = 30 * time.Second

// requestedScope is sent with every client-credentials request.
const requestedScope = "openid"

// Logger is an interface for optional logging in TokenManager.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// Credentials identify the client against the identity provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

func (c Credentials) validate() error {
	switch {
	case c.ClientID == "":
		return &AuthError{Kind: KindMisconfiguredCredentials, Err: fmt.Errorf("client id is empty")}
	case c.ClientSecret == "":
		return &AuthError{Kind: KindMisconfiguredCredentials, Err: fmt.Errorf("client secret is empty")}
	case c.TokenURL == "":
		return &AuthError{Kind: KindMisconfiguredCredentials, Err: fmt.Errorf("token url is empty")}
	}
	return nil
}

// cachedToken is replaced wholesale on every refresh.
type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

// TokenManager hands out bearer tokens for outbound API calls, refreshing them with the
// client credentials flow when the cached token is missing or expired.
//
// A manager built with NewPublicTokenManager has no fetcher and always reports "no token".
// TokenManager is safe for concurrent use; at most one refresh is in flight at a time.
type TokenManager struct {
	fetcher    *clientcredentials.Config // nil in public mode
	httpClient *http.Client
	clock      clock.Clock
	logger     Logger // optional logger
	ctx        context.Context

	mu    sync.Mutex
	token *cachedToken
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(tm *TokenManager) {
		tm.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() Option {
	return func(tm *TokenManager) {
		tm.logger = log.Default()
	}
}

// WithClock replaces the wall clock used for expiry decisions.
func WithClock(c clock.Clock) Option {
	return func(tm *TokenManager) {
		if c != nil {
			tm.clock = c
		}
	}
}

// WithHTTPClient sets the HTTP client used to reach the token endpoint.
// Without it the client from the request context (oauth2.HTTPClient) or http.DefaultClient is used.
func WithHTTPClient(client *http.Client) Option {
	return func(tm *TokenManager) {
		tm.httpClient = client
	}
}

// NewTokenManager creates a token manager in authenticated mode.
//
// ctx is the fallback context for GetToken; its cancellation is detached so that
// a finished setup context does not poison later refreshes.
func NewTokenManager(ctx context.Context, creds Credentials, opts ...Option) (*TokenManager, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	tm := newTokenManager(ctx, opts)
	tm.fetcher = &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		Scopes:       []string{requestedScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return tm, nil
}

// NewPublicTokenManager creates a token manager for unauthenticated access.
// It never contacts an identity provider.
func NewPublicTokenManager(opts ...Option) *TokenManager {
	return newTokenManager(context.Background(), opts)
}

func newTokenManager(ctx context.Context, opts []Option) *TokenManager {
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	tm := &TokenManager{
		clock: clock.New(),
		ctx:   ctx,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Authenticated reports whether the manager was built with credentials.
func (tm *TokenManager) Authenticated() bool {
	return tm.fetcher != nil
}

// GetTokenWithContext returns a currently valid access token.
//
// In public mode it returns ok=false and a nil error. Otherwise the cached token is
// returned while it is unexpired; a missing or expired token is refreshed under the
// same lock, so concurrent callers wait for one refresh and then share its result.
// A failed refresh returns an *AuthError and leaves the cache untouched.
func (tm *TokenManager) GetTokenWithContext(ctx context.Context) (string, bool, error) {
	if tm.fetcher == nil {
		return "", false, nil
	}
	if ctx == nil {
		ctx = tm.ctx
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.tokenValid() {
		return tm.token.accessToken, true, nil
	}

	token, err := tm.refresh(ctx)
	if err != nil {
		if tm.logger != nil {
			tm.logger.Printf("oauth2client: token refresh failed (%s)", err.Kind)
		}
		return "", false, err
	}
	tm.token = token

	if tm.logger != nil {
		tm.logger.Printf("oauth2client: obtained new access token (expires: %s)", token.expiresAt.Format(time.RFC3339))
	}

	return token.accessToken, true, nil
}

// GetToken is GetTokenWithContext using the context given at construction.
func (tm *TokenManager) GetToken() (string, bool, error) {
	return tm.GetTokenWithContext(tm.ctx)
}

// Invalidate drops the cached token so the next call refreshes.
// The token is not revoked at the provider.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = nil
}

// tokenValid must be called with mu held.
func (tm *TokenManager) tokenValid() bool {
	if tm.token == nil {
		return false
	}
	return tm.clock.Now().Before(tm.token.expiresAt)
}

// refresh must be called with mu held.
func (tm *TokenManager) refresh(ctx context.Context) (*cachedToken, *AuthError) {
	if tm.fetcher == nil {
		return nil, &AuthError{Kind: KindMisconfiguredCredentials, Err: fmt.Errorf("no credentials configured")}
	}
	if tm.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, tm.httpClient)
	}

	token, err := tm.fetcher.Token(ctx)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	expiresIn, err := expiresInSeconds(token)
	if err != nil {
		return nil, &AuthError{Kind: KindMalformedTokenResponse, Err: err}
	}

	// No clamping: expires_in <= 30 yields an already-expired entry and the next call refreshes again.
	expiresAt := tm.clock.Now().Add(lifetime(expiresIn) - ExpiryBuffer)

	return &cachedToken{
		accessToken: token.AccessToken,
		expiresAt:   expiresAt,
	}, nil
}

// expiresInSeconds reads expires_in from the raw JSON response. It must be an integer.
func expiresInSeconds(token *oauth2.Token) (int64, error) {
	raw := token.Extra("expires_in")
	if raw == nil {
		return 0, fmt.Errorf("response missing expires_in")
	}

	v, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("expires_in has type %T, want integer", raw)
	}
	if v != math.Trunc(v) || math.Abs(v) > maxExactInteger {
		return 0, fmt.Errorf("expires_in %v is not a valid integer", v)
	}
	return int64(v), nil
}

// maxExactInteger is the largest magnitude a JSON number decoded into float64 holds exactly.
const maxExactInteger = 1 << 53

// maxLifetimeSeconds is the longest expires_in that fits in a time.Duration.
const maxLifetimeSeconds = int64(math.MaxInt64 / time.Second)

// lifetime converts expires_in to a Duration, saturating instead of overflowing.
func lifetime(expiresIn int64) time.Duration {
	switch {
	case expiresIn > maxLifetimeSeconds:
		return math.MaxInt64
	case expiresIn < -maxLifetimeSeconds:
		return math.MinInt64
	}
	return time.Duration(expiresIn) * time.Second
}

// UnaryClientInterceptor returns a gRPC unary client interceptor that automatically
// adds OAuth2 Bearer tokens to request metadata.
//
// In public mode calls pass through without an authorization entry. If the token fetch
// fails, the RPC call is aborted with an error.
func (tm *TokenManager) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, err := tm.outgoingContext(ctx)
		if err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor returns a gRPC stream client interceptor that automatically
// adds OAuth2 Bearer tokens to request metadata.
//
// In public mode streams are opened without an authorization entry. If the token fetch
// fails, stream creation is aborted with an error.
func (tm *TokenManager) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx, err := tm.outgoingContext(ctx)
		if err != nil {
			return nil, err
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}

func (tm *TokenManager) outgoingContext(ctx context.Context) (context.Context, error) {
	token, ok, err := tm.GetTokenWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("oauth2client: failed to get token: %w", err)
	}
	if !ok {
		return ctx, nil
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), nil
}
