package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/olgasafonova/mediawiki-actions-mcp-server/metrics"
	"github.com/olgasafonova/mediawiki-actions-mcp-server/tracing"
)

// Client handles communication with the MediaWiki Action API.
// One client is shared across tool calls; the session cookie jar and CSRF
// token live for the process lifetime.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger

	// Authentication state
	mu        sync.RWMutex
	loggedIn  bool
	csrfToken string

	// De-duplicates concurrent token refreshes
	tokenGroup singleflight.Group
}

// NewClient creates a new MediaWiki API client
func NewClient(config *Config, logger *slog.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Jar:       jar,
			Transport: transport,
		},
		logger: logger,
	}
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// request is the single funnel for all JSON API calls. GET sends query
// parameters, POST sends a form-encoded body. format=json is always set.
// The decoded value may be an object or, for opensearch, an array.
func (c *Client) request(ctx context.Context, method string, params url.Values) (interface{}, error) {
	params.Set("format", "json")
	action := params.Get("action")

	ctx, span := tracing.StartSpan(ctx, "wiki.api."+action)
	defer span.End()
	tracing.AddWikiAttributes(span, action, params.Get("title"))

	var req *http.Request
	var err error
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPICall(action, duration, false)
		span.SetStatus(codes.Error, err.Error())
		return nil, &TransportError{Operation: action, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(action, duration, false)
		return nil, &TransportError{Operation: action, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordAPICall(action, duration, false)
		c.logger.Warn("API returned non-OK status", "action", action, "status", resp.StatusCode)
		span.SetStatus(codes.Error, resp.Status)
		return nil, &TransportError{Operation: action, StatusCode: resp.StatusCode}
	}

	var result interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.RecordAPICall(action, duration, false)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	metrics.RecordAPICall(action, duration, true)
	return result, nil
}

// requestObject performs a JSON API call and asserts the response is an
// object. MediaWiki error envelopes stay in the returned map: operation
// decoders treat them as data, only the auth paths convert them to errors.
func (c *Client) requestObject(ctx context.Context, method string, params url.Values) (map[string]interface{}, error) {
	result, err := c.request(ctx, method, params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(map[string]interface{})
	if !ok {
		return nil, &UnexpectedShapeError{Operation: params.Get("action")}
	}
	return obj, nil
}

// requestRaw is the plain-text path for action=raw; the response is
// wikitext, not JSON, so the decoder is the identity function.
func (c *Client) requestRaw(ctx context.Context, params url.Values) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "wiki.api.raw")
	defer span.End()
	tracing.AddWikiAttributes(span, "raw", params.Get("title"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPICall("raw", duration, false)
		return "", &TransportError{Operation: "raw", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall("raw", duration, false)
		return "", &TransportError{Operation: "raw", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordAPICall("raw", duration, false)
		return "", &TransportError{Operation: "raw", StatusCode: resp.StatusCode}
	}

	metrics.RecordAPICall("raw", duration, true)
	return string(body), nil
}

// apiErrorFrom converts a MediaWiki error envelope into an APIError, or
// returns nil if the response carries none
func apiErrorFrom(resp map[string]interface{}) *APIError {
	errObj := getMap(resp, "error")
	if errObj == nil {
		return nil
	}
	return &APIError{
		Code: strOr(errObj, "code", "unknown"),
		Info: strOr(errObj, "info", "Unknown error"),
	}
}

// Login authenticates with the wiki using the two-step bot password flow:
// fetch a login token, then post credentials with it.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loggedIn {
		return nil
	}
	return c.loginLocked(ctx)
}

// loginLocked performs the token exchange; callers must hold c.mu
func (c *Client) loginLocked(ctx context.Context) error {
	if !c.config.HasCredentials() {
		metrics.AuthFailures.WithLabelValues("no_credentials").Inc()
		return &AuthenticationError{
			Operation: "login",
			Reason:    "no credentials configured. Set MEDIAWIKI_API_BOT_USERNAME and MEDIAWIKI_API_BOT_PASSWORD environment variables",
		}
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("meta", "tokens")
	params.Set("type", "login")

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("login_token").Inc()
		return &AuthenticationError{Operation: "login", Reason: fmt.Sprintf("failed to get login token: %v", err)}
	}
	if apiErr := apiErrorFrom(resp); apiErr != nil {
		metrics.AuthFailures.WithLabelValues("login_token").Inc()
		return &AuthenticationError{Operation: "login", Reason: apiErr.Error()}
	}

	tokens := getMap(getMap(resp, "query"), "tokens")
	loginToken := getString(tokens, "logintoken")
	if loginToken == "" {
		metrics.AuthFailures.WithLabelValues("login_token").Inc()
		return &AuthenticationError{Operation: "login", Reason: "no login token in response"}
	}

	params = url.Values{}
	params.Set("action", "login")
	params.Set("lgname", c.config.Username)
	params.Set("lgpassword", c.config.Password)
	params.Set("lgtoken", loginToken)

	resp, err = c.requestObject(ctx, http.MethodPost, params)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("login_request").Inc()
		return &AuthenticationError{Operation: "login", Reason: err.Error()}
	}
	if apiErr := apiErrorFrom(resp); apiErr != nil {
		metrics.AuthFailures.WithLabelValues("login_request").Inc()
		return &AuthenticationError{Operation: "login", Reason: apiErr.Error()}
	}

	login := getMap(resp, "login")
	result := getString(login, "result")
	if result != "Success" {
		metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		reason := fmt.Sprintf("login result %q", result)
		if r := getString(login, "reason"); r != "" {
			reason += ": " + r
		}
		reason += " - check credentials"
		return &AuthenticationError{Operation: "login", Reason: reason}
	}

	c.loggedIn = true
	c.logger.Info("Successfully logged in", "username", c.config.Username)
	return nil
}

// csrf returns the cached CSRF token, acquiring one if needed. Acquisition
// logs in first when the session is fresh and retries once; a second
// failure is reported as an explicit AuthenticationError. Concurrent
// callers share one refresh via singleflight.
func (c *Client) csrf(ctx context.Context) (string, error) {
	c.mu.RLock()
	token := c.csrfToken
	c.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := c.tokenGroup.Do("csrf", func() (interface{}, error) {
		token, err := c.fetchCSRFToken(ctx)
		if err != nil {
			c.logger.Warn("CSRF token fetch failed, retrying once", "error", err)
			token, err = c.fetchCSRFToken(ctx)
		}
		if err != nil {
			metrics.AuthFailures.WithLabelValues("csrf_token").Inc()
			return "", &AuthenticationError{
				Operation: "csrf token acquisition",
				Reason:    fmt.Sprintf("token fetch failed twice: %v", err),
			}
		}
		c.mu.Lock()
		c.csrfToken = token
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// fetchCSRFToken performs one meta=tokens round trip (default type is csrf)
func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	if err := c.Login(ctx); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("meta", "tokens")

	resp, err := c.requestObject(ctx, http.MethodGet, params)
	if err != nil {
		return "", err
	}
	if apiErr := apiErrorFrom(resp); apiErr != nil {
		return "", apiErr
	}

	token := getString(getMap(getMap(resp, "query"), "tokens"), "csrftoken")
	if token == "" {
		return "", shapeError("csrf token", resp)
	}
	return token, nil
}

// invalidateCSRFToken drops the cached token so the next mutation refreshes it
func (c *Client) invalidateCSRFToken() {
	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()
}

// noteTokenFailure inspects a mutation response and invalidates the cached
// CSRF token on a badtoken error, so the next call fetches a fresh one. The
// envelope itself still flows into the formatted report.
func (c *Client) noteTokenFailure(resp map[string]interface{}) {
	if errObj := getMap(resp, "error"); errObj != nil && getString(errObj, "code") == "badtoken" {
		c.logger.Warn("CSRF token rejected, dropping cached token")
		c.invalidateCSRFToken()
	}
}
