package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client counts merged pull requests through the GitHub search API. It
// implements the analyzer's code-host contract.
type Client struct {
	apiClient *github.Client
	repos     []string
	logger    *zap.Logger
}

// NewClient creates a new GitHub client scoped to the given
// repositories. References accept both owner/name and full GitHub URL
// forms.
func NewClient(accessToken string, repos []string, logger *zap.Logger) (*Client, error) {
	normalized := make([]string, 0, len(repos))
	for _, repo := range repos {
		ref, err := NormalizeRepo(repo)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, ref)
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		apiClient: github.NewClient(tc),
		repos:     normalized,
		logger:    logger,
	}, nil
}

// MergedPullRequests counts the pull requests merged between from and
// to, inclusive, across the configured repositories
func (c *Client) MergedPullRequests(ctx context.Context, from, to time.Time) (int, error) {
	total := 0
	for _, repo := range c.repos {
		query := MergedPRQuery(repo, from, to)

		result, _, err := c.apiClient.Search.Issues(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: 1},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to search merged pull requests in %s: %w", repo, err)
		}

		c.logger.Debug("counted merged pull requests",
			zap.String("repo", repo),
			zap.Int("count", result.GetTotal()),
		)

		total += result.GetTotal()
	}

	return total, nil
}
