package crates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crateops/operator/pkg/cache"
	"github.com/crateops/operator/pkg/integrations"
)

// DefaultBaseURL is the production crates.io API endpoint.
const DefaultBaseURL = "https://crates.io/api/v1"

// Client provides access to the crates.io package registry API.
// It handles HTTP requests with automatic retries for transient failures.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for metadata responses (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long metadata responses are cached
//
// The client includes a User-Agent header as required by crates.io API policy.
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": "crateops-operator (https://github.com/crateops/operator)",
	}
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client against a non-default registry
// endpoint. Used for private registries and tests.
func NewClientWithBaseURL(backend cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	c := NewClient(backend, cacheTTL)
	c.baseURL = baseURL
	return c
}

// LatestVersion returns the newest published version of a crate, or
// integrations.ErrNotFound if the crate has never been published.
//
// Responses are cached under the client's TTL; refresh bypasses the
// cache. Nothing correctness-critical consumes this: the executor's
// idempotency and propagation checks go through [Client.IsVisible],
// which never sees cached state.
func (c *Client) LatestVersion(ctx context.Context, name string, refresh bool) (string, error) {
	var data crateResponse
	err := c.Cached(ctx, name, refresh, &data, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, name), &data)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: crate %s", integrations.ErrNotFound, name)
		}
		return "", err
	}
	return data.Crate.MaxVersion, nil
}

// IsVisible reports whether name@version resolves in the registry index.
//
// A publish acknowledgment can precede index propagation, so the executor
// polls this until the version becomes resolvable before publishing
// dependents. Never cached.
func (c *Client) IsVisible(ctx context.Context, name, version string) (bool, error) {
	url := fmt.Sprintf("%s/crates/%s/%s", c.baseURL, name, version)

	var data versionResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return data.Version.Num == version, nil
}

type crateResponse struct {
	Crate struct {
		Name       string `json:"name"`
		MaxVersion string `json:"max_version"`
	} `json:"crate"`
}

type versionResponse struct {
	Version struct {
		Num    string `json:"num"`
		Yanked bool   `json:"yanked"`
	} `json:"version"`
}
