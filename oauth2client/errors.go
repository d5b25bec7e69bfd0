package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"golang.org/x/oauth2"
)

// ErrorKind classifies why a token could not be obtained.
type ErrorKind int

const (
	// KindProviderUnreachable is a transport-level failure contacting the token endpoint.
	KindProviderUnreachable ErrorKind = iota + 1
	// KindProviderRejected is a non-2xx (or error-bearing) response from the token endpoint.
	KindProviderRejected
	// KindMalformedTokenResponse is a response missing required fields or carrying wrong types.
	KindMalformedTokenResponse
	// KindMisconfiguredCredentials means an authenticated operation lacked credential fields.
	KindMisconfiguredCredentials
)

func (k ErrorKind) String() string {
	switch k {
	case KindProviderUnreachable:
		return "provider unreachable"
	case KindProviderRejected:
		return "provider rejected"
	case KindMalformedTokenResponse:
		return "malformed token response"
	case KindMisconfiguredCredentials:
		return "misconfigured credentials"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against an *AuthError of the same kind.
var (
	ErrProviderUnreachable      = &AuthError{Kind: KindProviderUnreachable}
	ErrProviderRejected         = &AuthError{Kind: KindProviderRejected}
	ErrMalformedTokenResponse   = &AuthError{Kind: KindMalformedTokenResponse}
	ErrMisconfiguredCredentials = &AuthError{Kind: KindMisconfiguredCredentials}
)

// AuthError is returned by TokenManager whenever a token cannot be produced.
// StatusCode and Body are only set for KindProviderRejected.
type AuthError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	msg := "oauth2client: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AuthError of the same kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsAuthError reports whether err carries an *AuthError anywhere in its chain.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// classifyFetchError maps an error from the oauth2 library onto the AuthError taxonomy.
func classifyFetchError(err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &AuthError{Kind: KindProviderRejected, Err: err}
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}
		authErr.Body = string(retrieveErr.Body)
		return authErr
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &AuthError{Kind: KindProviderUnreachable, Err: err}
	}

	return &AuthError{Kind: KindMalformedTokenResponse, Err: err}
}
