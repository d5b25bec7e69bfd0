package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource supplies bearer tokens. ok=false with a nil error means the request
// should go out unauthenticated. *oauth2client.TokenManager implements it.
type TokenSource interface {
	GetTokenWithContext(ctx context.Context) (token string, ok bool, err error)
}

// OAuth2Transport is an http.RoundTripper that automatically adds OAuth2
// Bearer tokens to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and
// injects the Authorization header before each request.
type OAuth2Transport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Tokens provides OAuth2 access tokens.
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper interface.
// It asks the token source for a token and, when one is available, sets
// "Authorization: Bearer <token>" on a clone of the request before delegating
// to the base transport. Token failures are returned without sending the request.
// Redirects to another host are sent without the header.
func (t *OAuth2Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens == nil {
		return nil, fmt.Errorf("httpclient: token source is nil")
	}

	token, ok, err := t.Tokens.GetTokenWithContext(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: authorization failed: %w", err)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if !ok || redirectedOffHost(req) {
		return base.RoundTrip(req)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	return base.RoundTrip(reqClone)
}

// redirectedOffHost reports whether req follows a redirect that left the host of the
// request that started the chain.
func redirectedOffHost(req *http.Request) bool {
	first := req
	for first.Response != nil && first.Response.Request != nil {
		first = first.Response.Request
	}
	return first != req && first.URL.Host != req.URL.Host
}

// NewOAuth2Transport creates a new OAuth2Transport with the given token source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewOAuth2Transport(tokens TokenSource, base http.RoundTripper) *OAuth2Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &OAuth2Transport{
		Base:   base,
		Tokens: tokens,
	}
}
