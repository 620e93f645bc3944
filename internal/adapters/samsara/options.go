// Package samsara implements the Samsara fleet API client.
package samsara

import (
	"net/http"
	"time"

	"github.com/pepmove/fleetboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAPIToken sets the bearer token.
func WithAPIToken(token string) Option {
	return func(c *Client) {
		c.apiToken = token
	}
}

// WithGroupID restricts fleet queries to one group.
func WithGroupID(groupID string) Option {
	return func(c *Client) {
		c.groupID = groupID
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

// WithClock fixes the time source, used by tests to pin stat windows.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
