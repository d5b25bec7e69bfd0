// Package httpclient offers HTTP client construction helpers with OAuth2 authentication and TLS/mTLS options.
//
// OAuth2Transport wraps any RoundTripper and sets "Authorization: Bearer <token>" from a TokenSource.
// When the source reports no token (a public-mode oauth2client.TokenManager) the header is omitted.
// Token failures abort the request with an error wrapping the *oauth2client.AuthError, so callers can
// tell an authorization failure apart from a failed API call. Redirects to another host are
// followed without the header.
//
// # Features
//
//   - Fluent builder for http.Client with optional OAuth2 token injection; WithCredentials
//     creates the TokenManager over the same transport, exposed via Builder.TokenSource
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Custom timeouts, base transport override, and redirect disabling
//   - Reusable OAuth2Transport for manual composition
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithCredentials(ctx, oauth2client.Credentials{
//	        ClientID:     "client-id",
//	        ClientSecret: "client-secret",
//	        TokenURL:     "https://login.blockstream.com/realms/blockstream-public/protocol/openid-connect/token",
//	    }).
//	    WithTLS("/path/to/ca.crt", "", "").
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://enterprise.blockstream.info/api/blocks/tip/height")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewOAuth2Transport(tm, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided TokenSource is.
package httpclient
