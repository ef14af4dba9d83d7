package wiki

import (
	"errors"
	"os"
	"time"
)

// Config holds MediaWiki connection settings
type Config struct {
	// APIURL is the wiki Action API endpoint (e.g., https://wiki.example.com/api.php)
	APIURL string

	// Username for bot password authentication (optional, for mutations)
	Username string

	// Password for bot password authentication (optional, for mutations)
	Password string

	// UserAgent identifies the client to the wiki
	UserAgent string

	// Timeout for API requests
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	apiURL := os.Getenv("MEDIAWIKI_API_URL")
	if apiURL == "" {
		return nil, errors.New("MEDIAWIKI_API_URL environment variable is required")
	}

	userAgent := os.Getenv("MEDIAWIKI_API_BOT_USER_AGENT")
	if userAgent == "" {
		userAgent = "MediaWiki-MCP-Bot/1.0"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("MEDIAWIKI_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Config{
		APIURL:    apiURL,
		Username:  os.Getenv("MEDIAWIKI_API_BOT_USERNAME"),
		Password:  os.Getenv("MEDIAWIKI_API_BOT_PASSWORD"),
		UserAgent: userAgent,
		Timeout:   timeout,
	}, nil
}

// HasCredentials returns true if authentication credentials are configured
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
