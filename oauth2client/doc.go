// Package oauth2client provides the OAuth2 client-credentials token manager used by the Esplora client.
//
// A TokenManager either holds credentials (authenticated mode) or none (public mode). In authenticated
// mode it caches one bearer token, treats it as expired 30 seconds before the provider's expires_in,
// and refreshes it lazily on the next call. Check, refresh and store happen under a single lock, so
// concurrent callers racing an expired cache cause exactly one request to the identity provider.
// In public mode it never contacts the provider and reports "no token".
//
// # Features
//
//   - Client-credentials flow (grant_type=client_credentials, scope=openid, credentials in the form body)
//   - Injectable clock (github.com/benbjohnson/clock) and HTTP client for the token endpoint
//   - Typed failures: *AuthError with ErrProviderUnreachable, ErrProviderRejected,
//     ErrMalformedTokenResponse and ErrMisconfiguredCredentials for errors.Is matching
//   - gRPC unary and stream client interceptors that inject Bearer tokens
//   - Optional logging (WithLogger, WithLoggingEnabled); tokens are never logged
//
// # Quick Start
//
//	tm, err := oauth2client.NewTokenManager(ctx, oauth2client.Credentials{
//	    ClientID:     os.Getenv("ESPLORA_CLIENT_ID"),
//	    ClientSecret: os.Getenv("ESPLORA_CLIENT_SECRET"),
//	    TokenURL:     "https://login.blockstream.com/realms/blockstream-public/protocol/openid-connect/token",
//	}, oauth2client.WithLoggingEnabled())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, ok, err := tm.GetTokenWithContext(ctx)
//
// # Notes
//
//   - No retries: a failed refresh is returned to the caller and the next call tries again.
//   - Tokens are not persisted and not revoked; Invalidate only clears the local cache.
package oauth2client
