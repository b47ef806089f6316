package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teammon/teammon/internal/domain"
	"github.com/teammon/teammon/internal/gateway"
)

const (
	maxIssueResults  = 50
	maxCommitResults = 100
	maxPRResults     = 100
)

// IssueProvider resolves user identities and fetches assigned issues.
// FindUser returns nil without an error when no user matches.
type IssueProvider interface {
	Name() string
	FindUser(ctx context.Context, query string) (*domain.UserIdentity, error)
	UserIssues(ctx context.Context, accountID string, maxResults int) ([]domain.Issue, error)
}

// SourceControlProvider fetches commits and pull requests authored by
// a username within a bounded time window.
type SourceControlProvider interface {
	Name() string
	UserCommits(ctx context.Context, username string, days, maxResults int) ([]domain.Commit, error)
	UserPullRequests(ctx context.Context, username string, days, maxResults int) ([]domain.PullRequest, error)
}

// Aggregator combines issue-tracker and source-control activity for a
// single user into one ActivityRecord. Every sub-fetch failure is
// isolated: it becomes an entry in the record's Errors list and never
// aborts the other sub-fetches.
type Aggregator struct {
	issues  IssueProvider
	sources SourceControlProvider
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator with its provider clients
// injected. Callers own the client lifetimes.
func NewAggregator(issues IssueProvider, sources SourceControlProvider, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		issues:  issues,
		sources: sources,
		logger:  logger,
	}
}

// UserActivity fetches activity for username per intent. The days
// window bounds the source-control lookups only. The three sub-fetches
// run concurrently; their error messages are merged in a fixed order
// (issues, commits, pull requests) so output is reproducible.
func (a *Aggregator) UserActivity(ctx context.Context, username string, intent domain.Intent, days int) *domain.ActivityRecord {
	rec := &domain.ActivityRecord{
		Username:     username,
		Issues:       []domain.Issue{},
		Commits:      []domain.Commit{},
		PullRequests: []domain.PullRequest{},
		Errors:       []string{},
	}

	var issueErrs, commitErrs, prErrs []string

	// Sub-fetches never propagate errors through the group; failures
	// land in the per-fetch error slices instead.
	g, gctx := errgroup.WithContext(ctx)

	if intent == domain.IntentIssues || intent == domain.IntentAll {
		g.Go(func() error {
			rec.Issues, issueErrs = a.fetchIssues(gctx, username)
			return nil
		})
	}

	if intent == domain.IntentSourceControl || intent == domain.IntentAll {
		g.Go(func() error {
			rec.Commits, commitErrs = a.fetchCommits(gctx, username, days)
			return nil
		})
		g.Go(func() error {
			rec.PullRequests, prErrs = a.fetchPullRequests(gctx, username, days)
			return nil
		})
	}

	_ = g.Wait()

	rec.Errors = append(rec.Errors, issueErrs...)
	rec.Errors = append(rec.Errors, commitErrs...)
	rec.Errors = append(rec.Errors, prErrs...)
	rec.HasActivity = len(rec.Issues) > 0 || len(rec.Commits) > 0 || len(rec.PullRequests) > 0

	a.logger.Info("aggregated activity",
		zap.String("user", username),
		zap.Int("issues", len(rec.Issues)),
		zap.Int("commits", len(rec.Commits)),
		zap.Int("prs", len(rec.PullRequests)),
		zap.Int("errors", len(rec.Errors)),
	)
	return rec
}

func (a *Aggregator) fetchIssues(ctx context.Context, username string) ([]domain.Issue, []string) {
	name := a.issues.Name()

	user, err := a.issues.FindUser(ctx, username)
	if err != nil {
		a.logger.Error("user lookup failed", zap.String("user", username), zap.Error(err))
		return []domain.Issue{}, []string{fmt.Sprintf("%s: Unexpected error - %s", name, err)}
	}
	if user == nil {
		a.logger.Warn("user not found", zap.String("user", username))
		return []domain.Issue{}, []string{fmt.Sprintf("%s: User '%s' not found", name, username)}
	}

	issues, err := a.issues.UserIssues(ctx, user.AccountID, maxIssueResults)
	if err != nil {
		a.logger.Error("issue fetch failed", zap.String("user", username), zap.Error(err))
		var connErr *gateway.ConnError
		if !errors.As(err, &connErr) {
			return []domain.Issue{}, []string{fmt.Sprintf("%s: Unexpected error - %s", name, err)}
		}
		errs := []string{fmt.Sprintf("%s: %s", name, err)}
		if connErr.StatusCode == http.StatusGone {
			errs = append(errs, fmt.Sprintf("%s: User '%s' has no %s product access (license required)", name, username, name))
		}
		return []domain.Issue{}, errs
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}

func (a *Aggregator) fetchCommits(ctx context.Context, username string, days int) ([]domain.Commit, []string) {
	commits, err := a.sources.UserCommits(ctx, username, days, maxCommitResults)
	if err != nil {
		a.logger.Error("commit fetch failed", zap.String("user", username), zap.Error(err))
		return []domain.Commit{}, []string{subFetchError(a.sources.Name()+" commits", err)}
	}
	if commits == nil {
		commits = []domain.Commit{}
	}
	return commits, nil
}

func (a *Aggregator) fetchPullRequests(ctx context.Context, username string, days int) ([]domain.PullRequest, []string) {
	prs, err := a.sources.UserPullRequests(ctx, username, days, maxPRResults)
	if err != nil {
		a.logger.Error("pull request fetch failed", zap.String("user", username), zap.Error(err))
		return []domain.PullRequest{}, []string{subFetchError(a.sources.Name()+" PRs", err)}
	}
	if prs == nil {
		prs = []domain.PullRequest{}
	}
	return prs, nil
}

func subFetchError(label string, err error) string {
	var connErr *gateway.ConnError
	if errors.As(err, &connErr) {
		return fmt.Sprintf("%s: %s", label, err)
	}
	return fmt.Sprintf("%s: Unexpected error - %s", label, err)
}
