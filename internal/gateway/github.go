// Package gateway provides clients for the external activity
// providers, abstracting away the underlying REST and GraphQL calls.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/teammon/teammon/internal/domain"
)

const githubProvider = "GitHub"

// ConnectionInfo describes the authenticated identity of a provider
// connection, as reported by its self-lookup endpoint.
type ConnectionInfo struct {
	User  string `json:"user"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// GitHubGateway fetches commits and pull requests authored by a user.
// Commit search goes through the REST API, pull request search through
// the GraphQL API.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// prSearchQuery fetches pull request details for the user activity window.
type prSearchQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename    string `graphql:"__typename"`
				PullRequest struct {
					Number    githubv4.Int
					Title     githubv4.String
					State     githubv4.PullRequestState
					CreatedAt githubv4.DateTime
					UpdatedAt githubv4.DateTime
					URL       githubv4.URI
					Author    struct {
						Login githubv4.String
					}
					Repository struct {
						NameWithOwner string
					}
				} `graphql:"... on PullRequest"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100, after: $cursor)"`
}

// NewGitHubGateway creates a GitHubGateway authenticated with a
// personal access token. Requests are rate-limit aware.
func NewGitHubGateway(token string, logger *zap.Logger) (*GitHubGateway, error) {
	if token == "" {
		return nil, &AuthError{Provider: githubProvider, Reason: "missing required GitHub token"}
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// Name returns the provider label used in user-facing error messages.
func (g *GitHubGateway) Name() string { return githubProvider }

// TestConnection verifies credentials by fetching the authenticated user.
func (g *GitHubGateway) TestConnection(ctx context.Context) (*ConnectionInfo, error) {
	user, resp, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		switch githubStatus(resp) {
		case http.StatusUnauthorized:
			return nil, &AuthError{Provider: githubProvider, Reason: "invalid GitHub token"}
		case http.StatusForbidden:
			return nil, &AuthError{Provider: githubProvider, Reason: "access forbidden - check token permissions"}
		}
		return nil, &ConnError{
			Provider:   githubProvider,
			StatusCode: githubStatus(resp),
			Err:        fmt.Errorf("failed to verify GitHub connection: %w", err),
		}
	}
	g.logger.Info("connected to GitHub", zap.String("user", user.GetLogin()))
	return &ConnectionInfo{
		User:  user.GetLogin(),
		Name:  user.GetName(),
		Email: user.GetEmail(),
	}, nil
}

// UserCommits fetches commits authored by username within the last
// days days, newest first, capped at maxResults.
func (g *GitHubGateway) UserCommits(ctx context.Context, username string, days, maxResults int) ([]domain.Commit, error) {
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	query := fmt.Sprintf("author:%s committer-date:>=%s", username, since)
	opts := &github.SearchOptions{
		Sort:        "committer-date",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: min(maxResults, 100)},
	}

	g.logger.Debug("fetching commits", zap.String("user", username), zap.Int("days", days))
	commits := []domain.Commit{}
	for {
		result, resp, err := g.restClient.Search.Commits(ctx, query, opts)
		if err != nil {
			return nil, &ConnError{
				Provider:   githubProvider,
				StatusCode: githubStatus(resp),
				Err:        fmt.Errorf("failed to fetch commits: %w", err),
			}
		}
		for _, c := range result.Commits {
			commits = append(commits, domain.Commit{
				SHA:        c.GetSHA(),
				Message:    c.GetCommit().GetMessage(),
				Author:     c.GetCommit().GetAuthor().GetName(),
				Date:       c.GetCommit().GetAuthor().GetDate().Time,
				Repository: c.GetRepository().GetFullName(),
				URL:        c.GetHTMLURL(),
			})
			if len(commits) >= maxResults {
				break
			}
		}
		if resp.NextPage == 0 || len(commits) >= maxResults {
			break
		}
		opts.Page = resp.NextPage
	}
	g.logger.Info("fetched commits", zap.String("user", username), zap.Int("count", len(commits)))
	return commits, nil
}

// UserPullRequests fetches pull requests created by username within
// the last days days, capped at maxResults. The GraphQL MERGED state
// is reported as "closed".
func (g *GitHubGateway) UserPullRequests(ctx context.Context, username string, days, maxResults int) ([]domain.PullRequest, error) {
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	query := fmt.Sprintf("is:pr author:%s created:>=%s", username, since)
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"cursor": (*githubv4.String)(nil),
	}

	g.logger.Debug("fetching pull requests", zap.String("user", username), zap.Int("days", days))
	prs := []domain.PullRequest{}
	for {
		var q prSearchQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, &ConnError{
				Provider: githubProvider,
				Err:      fmt.Errorf("failed to fetch pull requests: %w", err),
			}
		}
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "PullRequest" {
				continue
			}
			node := edge.Node.PullRequest
			state := "closed"
			if node.State == githubv4.PullRequestStateOpen {
				state = "open"
			}
			prs = append(prs, domain.PullRequest{
				Number:     int(node.Number),
				Title:      string(node.Title),
				State:      state,
				CreatedAt:  node.CreatedAt.Time,
				UpdatedAt:  node.UpdatedAt.Time,
				Repository: node.Repository.NameWithOwner,
				URL:        node.URL.String(),
				Author:     string(node.Author.Login),
			})
			if len(prs) >= maxResults {
				break
			}
		}
		if !q.Search.PageInfo.HasNextPage || len(prs) >= maxResults {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
	}
	g.logger.Info("fetched pull requests", zap.String("user", username), zap.Int("count", len(prs)))
	return prs, nil
}

func githubStatus(resp *github.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
