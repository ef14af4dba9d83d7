package wiki

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a caller-supplied argument that violates a local
// precondition. It is always detected before any network call.
type ValidationError struct {
	Field      string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Validation failed for %s: %s", e.Field, e.Message))
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n\nTo fix this:\n%s", e.Suggestion))
	}
	return sb.String()
}

// AuthenticationError indicates a login or CSRF token failure with recovery steps
type AuthenticationError struct {
	Operation string
	Reason    string
}

func (e *AuthenticationError) Error() string {
	var suggestion string
	switch {
	case strings.Contains(e.Reason, "credentials"):
		suggestion = `Check your credentials:
1. Verify MEDIAWIKI_API_BOT_USERNAME is in format "YourUser@BotName"
2. Verify MEDIAWIKI_API_BOT_PASSWORD is the bot password (not your user password)
3. Create a bot password at Special:BotPasswords on your wiki`

	case strings.Contains(e.Reason, "token"):
		suggestion = `Token error - this usually resolves automatically.
If persistent:
1. Check if your wiki session has expired
2. Verify your bot password hasn't been revoked`

	default:
		suggestion = `Check your wiki connection and credentials.
1. Verify MEDIAWIKI_API_URL points to a valid wiki API
2. Test the URL in a browser: <URL>?action=query&meta=siteinfo&format=json
3. Check if the wiki requires authentication for reading`
	}

	return fmt.Sprintf(`Authentication failed for %s: %s

%s`, e.Operation, e.Reason, suggestion)
}

// APIError is a structured {code, info} error returned by the MediaWiki API.
// Both fields are surfaced verbatim, never collapsed into a generic string.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("MediaWiki API Error (%s): %s", e.Code, e.Info)
}

// TransportError indicates a network failure or a non-2xx HTTP status.
// These are not retried; they are surfaced verbatim to the caller.
type TransportError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed: HTTP status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedShapeError reports a response whose JSON lacks the expected
// top-level structure. The keys actually present are included so callers
// can debug what the remote API returned.
type UnexpectedShapeError struct {
	Operation string
	Keys      []string
}

func (e *UnexpectedShapeError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("Unexpected %s response format", e.Operation)
	}
	keys := append([]string(nil), e.Keys...)
	sort.Strings(keys)
	return fmt.Sprintf("Unexpected %s response format. Response keys: [%s]", e.Operation, strings.Join(keys, ", "))
}

// shapeError builds an UnexpectedShapeError from a raw response object
func shapeError(operation string, resp map[string]interface{}) *UnexpectedShapeError {
	keys := make([]string, 0, len(resp))
	for k := range resp {
		keys = append(keys, k)
	}
	return &UnexpectedShapeError{Operation: operation, Keys: keys}
}
