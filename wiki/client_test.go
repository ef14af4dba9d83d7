package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// createMockClient creates a client that talks to a mock server
func createMockClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	config := &Config{
		APIURL:    server.URL,
		Username:  "TestBot",
		Password:  "TestPass",
		UserAgent: "TestClient/1.0",
		Timeout:   5 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewClient(config, logger)
}

// mockMediaWikiServer creates a test server that returns mock MediaWiki
// responses. It automatically handles login and token requests and delegates
// everything else to handler.
func mockMediaWikiServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		action := r.FormValue("action")
		meta := r.FormValue("meta")

		// Token requests: type=login yields a login token, the default
		// type yields a csrf token
		if action == "query" && meta == "tokens" {
			tokens := map[string]interface{}{}
			if r.FormValue("type") == "login" {
				tokens["logintoken"] = "test-login-token"
			} else {
				tokens["csrftoken"] = "test-csrf-token"
			}
			writeJSON(w, map[string]interface{}{
				"query": map[string]interface{}{"tokens": tokens},
			})
			return
		}

		if action == "login" {
			writeJSON(w, map[string]interface{}{
				"login": map[string]interface{}{"result": "Success"},
			})
			return
		}

		handler(w, r)
	}))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// failIfContacted fails the test when any request reaches the server. Used
// to verify that validation errors short-circuit before the network.
func failIfContacted(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to mock server: %s %s", r.Method, r.URL)
	}
}

func TestLogin_Success(t *testing.T) {
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Second call is a no-op on the cached session
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Second Login failed: %v", err)
	}
}

func TestLogin_NoCredentials(t *testing.T) {
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	client := createMockClient(t, server)
	client.config.Username = ""
	client.config.Password = ""
	defer client.Close()

	err := client.Login(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing credentials")
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %T: %v", err, err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("action") == "login" {
			writeJSON(w, map[string]interface{}{
				"login": map[string]interface{}{
					"result": "Failed",
					"reason": "Incorrect username or password entered.",
				},
			})
			return
		}
		writeJSON(w, map[string]interface{}{
			"query": map[string]interface{}{
				"tokens": map[string]interface{}{"logintoken": "test-login-token"},
			},
		})
	}))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	err := client.Login(context.Background())
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %T: %v", err, err)
	}
}

func TestCSRF_CachedAcrossCalls(t *testing.T) {
	var tokenFetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		action := r.FormValue("action")
		if action == "query" && r.FormValue("meta") == "tokens" {
			tokens := map[string]interface{}{}
			if r.FormValue("type") == "login" {
				tokens["logintoken"] = "test-login-token"
			} else {
				atomic.AddInt32(&tokenFetches, 1)
				tokens["csrftoken"] = "test-csrf-token"
			}
			writeJSON(w, map[string]interface{}{
				"query": map[string]interface{}{"tokens": tokens},
			})
			return
		}
		if action == "login" {
			writeJSON(w, map[string]interface{}{
				"login": map[string]interface{}{"result": "Success"},
			})
			return
		}
		t.Errorf("unexpected action %q", action)
	}))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	for i := 0; i < 3; i++ {
		token, err := client.csrf(context.Background())
		if err != nil {
			t.Fatalf("csrf call %d failed: %v", i, err)
		}
		if token != "test-csrf-token" {
			t.Errorf("csrf call %d = %q, want %q", i, token, "test-csrf-token")
		}
	}

	if got := atomic.LoadInt32(&tokenFetches); got != 1 {
		t.Errorf("csrf token fetched %d times, want 1", got)
	}
}

func TestCSRF_ConcurrentCallersShareOneFetch(t *testing.T) {
	var tokenFetches int32
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	// mockMediaWikiServer answers the token route itself; count fetches by
	// wrapping in a second server that proxies and counts
	countingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("action") == "query" && r.FormValue("meta") == "tokens" && r.FormValue("type") != "login" {
			atomic.AddInt32(&tokenFetches, 1)
		}
		r2, _ := http.NewRequest(r.Method, server.URL+"?"+r.Form.Encode(), nil)
		resp, err := http.DefaultClient.Do(r2)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer func() { _ = resp.Body.Close() }()
		w.Header().Set("Content-Type", "application/json")
		var v interface{}
		_ = json.NewDecoder(resp.Body).Decode(&v)
		_ = json.NewEncoder(w).Encode(v)
	}))
	defer countingServer.Close()

	client := createMockClient(t, countingServer)
	defer client.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.csrf(context.Background()); err != nil {
				t.Errorf("concurrent csrf failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&tokenFetches); got != 1 {
		t.Errorf("csrf token fetched %d times under concurrency, want 1", got)
	}
}

func TestNoteTokenFailure_InvalidatesOnBadToken(t *testing.T) {
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	client.mu.Lock()
	client.csrfToken = "stale-token"
	client.mu.Unlock()

	client.noteTokenFailure(map[string]interface{}{
		"error": map[string]interface{}{
			"code": "badtoken",
			"info": "Invalid CSRF token.",
		},
	})

	client.mu.RLock()
	token := client.csrfToken
	client.mu.RUnlock()
	if token != "" {
		t.Errorf("csrfToken = %q after badtoken, want empty", token)
	}
}

func TestNoteTokenFailure_IgnoresOtherErrors(t *testing.T) {
	server := mockMediaWikiServer(t, failIfContacted(t))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	client.mu.Lock()
	client.csrfToken = "good-token"
	client.mu.Unlock()

	client.noteTokenFailure(map[string]interface{}{
		"error": map[string]interface{}{
			"code": "protectedpage",
			"info": "This page has been protected.",
		},
	})
	client.noteTokenFailure(map[string]interface{}{
		"edit": map[string]interface{}{"result": "Success"},
	})

	client.mu.RLock()
	token := client.csrfToken
	client.mu.RUnlock()
	if token != "good-token" {
		t.Errorf("csrfToken = %q, want unchanged good-token", token)
	}
}

func TestRequest_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	params := url.Values{}
	params.Set("action", "query")
	_, err := client.request(context.Background(), http.MethodGet, params)
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %T: %v", err, err)
	}
	if transportErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", transportErr.StatusCode)
	}
}

func TestRequestObject_RejectsArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []interface{}{"unexpected"})
	}))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	params := url.Values{}
	params.Set("action", "query")
	_, err := client.requestObject(context.Background(), http.MethodGet, params)
	var shapeErr *UnexpectedShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected UnexpectedShapeError, got %T: %v", err, err)
	}
}

func TestRequestRaw_ReturnsBodyVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("== Heading ==\nPlain wikitext, not JSON"))
	}))
	defer server.Close()

	client := createMockClient(t, server)
	defer client.Close()

	params := url.Values{}
	params.Set("action", "raw")
	params.Set("title", "Test")
	body, err := client.requestRaw(context.Background(), params)
	if err != nil {
		t.Fatalf("requestRaw failed: %v", err)
	}
	if body != "== Heading ==\nPlain wikitext, not JSON" {
		t.Errorf("body = %q", body)
	}
}
