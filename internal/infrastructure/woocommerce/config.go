// Package woocommerce implements the remote client port against the
// WooCommerce REST API.
package woocommerce

import (
	"errors"
	"time"
)

// Constants for the WooCommerce API
const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response
	// defaultTimeout bounds every API round-trip
	defaultTimeout = 30 * time.Second
	// defaultVersion is the API namespace used when the backend does not pin one
	defaultVersion = "wc/v2"
	// defaultRequestsPerSecond paces requests to one store
	defaultRequestsPerSecond = 4
)

// Config holds the connection settings for one WooCommerce store.
type Config struct {
	// Location is the store base URL, e.g. "https://shop.example.com".
	Location string
	// ConsumerKey and ConsumerSecret authenticate against the REST API.
	ConsumerKey    string
	ConsumerSecret string
	// Version is the API namespace, e.g. "wc/v2" or "wc/v3".
	Version string
	// VerifySSL controls TLS certificate verification.
	VerifySSL bool
	// Timeout bounds each request; zero means defaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond paces requests; zero means defaultRequestsPerSecond.
	RequestsPerSecond float64
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Location == "" {
		return errors.New("woocommerce: location is required")
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return errors.New("woocommerce: consumer key and secret are required")
	}
	return nil
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *Config) version() string {
	if c.Version != "" {
		return c.Version
	}
	return defaultVersion
}

func (c *Config) requestsPerSecond() float64 {
	if c.RequestsPerSecond > 0 {
		return c.RequestsPerSecond
	}
	return defaultRequestsPerSecond
}
