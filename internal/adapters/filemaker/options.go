// Package filemaker implements the FileMaker Data API client.
package filemaker

import (
	"net/http"

	"github.com/pepmove/fleetboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithServerURL sets the FileMaker server base URL.
func WithServerURL(url string) Option {
	return func(c *Client) {
		c.serverURL = url
	}
}

// WithAPIVersion overrides the Data API version segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithDatabase sets the database name used in every request path.
func WithDatabase(database string) Option {
	return func(c *Client) {
		c.database = database
	}
}

// WithCredentials sets the basic-auth pair used to open sessions.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger replaces the package logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
