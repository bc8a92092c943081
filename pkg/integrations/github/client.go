package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crateops/operator/pkg/cache"
	"github.com/crateops/operator/pkg/integrations"
)

// Client provides access to the GitHub API for commit and pull-request
// metadata. It handles HTTP requests with automatic retries and optional
// authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests
// (lower rate limits).
func NewClient(token string) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "github:", time.Hour, headers),
		baseURL: "https://api.github.com",
	}
}

// NewClientWithBaseURL creates a client against a non-default API
// endpoint. Used for GitHub Enterprise and tests.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// PullsForCommit returns the pull requests associated with a commit,
// most recently merged first as reported by the API. An empty slice
// means the commit reached the branch without a pull request.
func (c *Client) PullsForCommit(ctx context.Context, owner, repo, sha string) ([]PullRequest, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	if sha == "" {
		return nil, errors.New("commit sha is required")
	}

	var pulls []PullRequest
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s/pulls", c.baseURL, owner, repo, sha)
	if err := c.Get(ctx, url, &pulls); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: commit %s in %s/%s", integrations.ErrNotFound, sha, owner, repo)
		}
		return nil, err
	}
	return pulls, nil
}
