// Package esplora is a typed client for the Esplora blockchain-indexing REST API
// (blockstream.info and the Blockstream enterprise endpoints).
//
// Requests are authorized with a bearer token from an oauth2client.TokenManager. A public-mode
// manager, or none at all, sends requests without Authorization. Failures to obtain a token are
// reported separately from failed API calls:
//
//	tip, err := client.TipHeight(ctx)
//	switch {
//	case esplora.IsAuthorizationError(err):
//	    // identity provider unreachable, rejected credentials, bad token response
//	case esplora.IsNotFound(err):
//	    // API answered 404
//	}
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := esplora.NewFromConfig(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	block, err := client.Block(ctx, hash)
//
// TLS settings (WithTLS, or ESPLORA_TLS_* via config) apply to the token endpoint as well as
// the API, since both go through the same transport. Redirects are returned as *APIError
// rather than followed.
//
// GET requests can be retried on transport errors, 429 and 5xx with WithRetries. Broadcasts and
// token requests are never retried.
package esplora
