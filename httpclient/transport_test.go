package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/AmmannChristian/go-esplora/oauth2client"
	"github.com/AmmannChristian/go-esplora/testutil"
)

func newTestTokenManager(tb testing.TB, server *testutil.MockOAuth2Server) *oauth2client.TokenManager {
	tb.Helper()

	tm, err := oauth2client.NewTokenManager(context.Background(), oauth2client.Credentials{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     server.TokenURL(),
	}, oauth2client.WithHTTPClient(server.Client()))
	if err != nil {
		tb.Fatalf("NewTokenManager failed: %v", err)
	}
	return tm
}

func okResponse(req *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestNewOAuth2Transport(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, nil)
	tm := newTestTokenManager(t, authServer)

	transport := NewOAuth2Transport(tm, nil)

	if transport == nil {
		t.Fatal("transport should not be nil")
	}

	if transport.Tokens != tm {
		t.Error("token source not set correctly")
	}

	if transport.Base == nil {
		t.Error("Base should default to a transport")
	}
}

func TestNewOAuth2Transport_WithCustomBase(t *testing.T) {
	customTransport := &http.Transport{}
	transport := NewOAuth2Transport(oauth2client.NewPublicTokenManager(), customTransport)

	if transport.Base != customTransport {
		t.Error("Base should be set to custom transport")
	}
}

func TestOAuth2Transport_RoundTrip(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, nil)
	tm := newTestTokenManager(t, authServer)

	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		authHeader := req.Header.Get("Authorization")
		if authHeader != "Bearer mock-access-token" {
			t.Errorf("unexpected Authorization header: %q", authHeader)
		}
		return okResponse(req, "success"), nil
	})

	client := &http.Client{Transport: NewOAuth2Transport(tm, baseTransport)}

	for i := 0; i < 3; i++ {
		resp, err := client.Get("https://blockstream.info/api/blocks/tip/height")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if string(body) != "success" {
			t.Errorf("unexpected response body: %s", body)
		}
	}

	if got := authServer.RequestCount(); got != 1 {
		t.Errorf("expected token to be fetched once, got %d", got)
	}
}

func TestOAuth2Transport_RoundTrip_PublicModeOmitsHeader(t *testing.T) {
	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if _, present := req.Header["Authorization"]; present {
			t.Errorf("public mode must not send Authorization, got %q", req.Header.Get("Authorization"))
		}
		return okResponse(req, "public"), nil
	})

	client := &http.Client{Transport: NewOAuth2Transport(oauth2client.NewPublicTokenManager(), baseTransport)}

	resp, err := client.Get("https://blockstream.info/api/blocks/tip/hash")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}

func TestOAuth2Transport_RoundTrip_NilTokenSource(t *testing.T) {
	transport := &OAuth2Transport{}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

	resp, err := transport.RoundTrip(req)
	if resp != nil {
		resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected error for nil token source")
	}

	if !strings.Contains(err.Error(), "token source is nil") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOAuth2Transport_RoundTrip_TokenFetchError(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("token fetch failed")
	})
	tm := newTestTokenManager(t, authServer)

	baseCalled := false
	transport := NewOAuth2Transport(tm, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		baseCalled = true
		return okResponse(req, ""), nil
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

	resp, err := transport.RoundTrip(req)
	if resp != nil {
		resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected error when token fetch fails")
	}

	if !strings.Contains(err.Error(), "authorization failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !errors.Is(err, oauth2client.ErrProviderUnreachable) {
		t.Errorf("expected provider unreachable in chain, got %v", err)
	}
	if baseCalled {
		t.Error("request must not be sent without a token")
	}
}

func TestOAuth2Transport_RoundTrip_DefaultTransportUsed(t *testing.T) {
	called := false
	prevTransport := http.DefaultTransport
	http.DefaultTransport = testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		called = true
		return okResponse(req, "default"), nil
	})
	defer func() { http.DefaultTransport = prevTransport }()

	client := &http.Client{Transport: &OAuth2Transport{Tokens: oauth2client.NewPublicTokenManager()}}

	resp, err := client.Get("https://blockstream.info/api/mempool")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if !called {
		t.Fatal("expected default transport to be used")
	}
}

func TestOAuth2Transport_RoundTrip_RequestNotModified(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, nil)
	tm := newTestTokenManager(t, authServer)

	transport := NewOAuth2Transport(tm, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		return okResponse(req, ""), nil
	}))

	// Create original request with proper URL (not httptest.NewRequest which sets RequestURI)
	originalReq, _ := http.NewRequest(http.MethodGet, "https://blockstream.info/api/fee-estimates", nil)
	originalReq.Header.Set("X-Custom-Header", "test-value")

	client := &http.Client{Transport: transport}
	resp, err := client.Do(originalReq)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// Original request should not have Authorization header
	if originalReq.Header.Get("Authorization") != "" {
		t.Error("original request should not be modified")
	}
}

func TestOAuth2Transport_RoundTrip_PreservesOtherHeaders(t *testing.T) {
	authServer := testutil.NewMockOAuth2Server(t, nil)
	tm := newTestTokenManager(t, authServer)

	transport := NewOAuth2Transport(tm, testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Custom-Header") != "test-value" {
			t.Error("custom header not preserved")
		}

		if req.Header.Get("Content-Type") != "text/plain" {
			t.Error("content-type header not preserved")
		}

		return okResponse(req, ""), nil
	}))

	client := &http.Client{Transport: transport}

	req, _ := http.NewRequest(http.MethodPost, "https://blockstream.info/api/tx", strings.NewReader("0200"))
	req.Header.Set("X-Custom-Header", "test-value")
	req.Header.Set("Content-Type", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(oauth2client.NewPublicTokenManager())

	if client == nil {
		t.Fatal("client should not be nil")
	}

	if client.Timeout == 0 {
		t.Error("timeout should be set")
	}

	if _, ok := client.Transport.(*OAuth2Transport); !ok {
		t.Errorf("expected *OAuth2Transport, got %T", client.Transport)
	}
}

func TestOAuth2Transport_Redirects(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string]string{}
	)
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			seen[name] = r.Header.Get("Authorization")
			mu.Unlock()
			_, _ = io.WriteString(w, "ok")
		}
	}

	other := testutil.NewLocalHTTPServer(t, record("other"))

	mux := http.NewServeMux()
	mux.HandleFunc("/same", record("same"))
	mux.HandleFunc("/to-same", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/same", http.StatusFound)
	})
	mux.HandleFunc("/to-other", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/moved", http.StatusFound)
	})
	origin := testutil.NewLocalHTTPServer(t, mux)

	authServer := testutil.NewMockOAuth2Server(t, testutil.TokenResponse("redirect-token", 3600))
	client := &http.Client{Transport: NewOAuth2Transport(newTestTokenManager(t, authServer), nil)}

	tests := []struct {
		name   string
		path   string
		target string
		want   string
	}{
		{name: "same host keeps header", path: "/to-same", target: "same", want: "Bearer redirect-token"},
		{name: "other host drops header", path: "/to-other", target: "other", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(origin.URL + tt.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()

			mu.Lock()
			got, ok := seen[tt.target]
			mu.Unlock()
			if !ok {
				t.Fatalf("redirect target %s was not reached", tt.target)
			}
			if got != tt.want {
				t.Errorf("Authorization at %s = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
