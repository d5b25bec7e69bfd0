// Package testutil provides test helpers for go-esplora packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding IPv6 in sandboxes),
// mock OAuth2 token endpoints without real sockets, and generate self-signed certificates for TLS/mTLS tests.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1, closed on test cleanup
//   - NewLocalTLSServer: same over HTTPS, with the server certificate written out as a CA file
//   - MockOAuth2Server, TokenResponse, JSONResponse: stub token endpoints and capture requests and form bodies
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - WriteTestCACert / WriteTestCertAndKey: generate temporary CA and leaf certificates for tests
//
// None of the helpers mutate http.DefaultClient or http.DefaultTransport; inject MockOAuth2Server.Client
// or MockOAuth2Server.Ctx instead.
package testutil
