package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/domain"
)

const jiraProvider = "JIRA"

// JiraGateway resolves user identities and fetches assigned issues
// from a Jira instance over its REST API.
type JiraGateway struct {
	client *jira.Client
	logger *zap.Logger
}

// NewJiraGateway creates a JiraGateway authenticated with Basic auth
// (account email + API token).
func NewJiraGateway(baseURL, email, apiToken string, logger *zap.Logger) (*JiraGateway, error) {
	var missing []string
	if baseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if apiToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return nil, &AuthError{
			Provider: jiraProvider,
			Reason:   "missing required JIRA credentials: " + strings.Join(missing, ", "),
		}
	}

	tp := jira.BasicAuthTransport{Username: email, Password: apiToken}
	client, err := jira.NewClient(tp.Client(), strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to create JIRA client: %w", err)
	}
	logger.Info("JIRA client initialized", zap.String("base_url", baseURL))
	return &JiraGateway{client: client, logger: logger}, nil
}

// Name returns the provider label used in user-facing error messages.
func (g *JiraGateway) Name() string { return jiraProvider }

// TestConnection verifies credentials by fetching the authenticated user.
func (g *JiraGateway) TestConnection(ctx context.Context) (*ConnectionInfo, error) {
	self, resp, err := g.client.User.GetSelfWithContext(ctx)
	if err != nil {
		switch jiraStatus(resp) {
		case http.StatusUnauthorized:
			return nil, &AuthError{Provider: jiraProvider, Reason: "invalid JIRA credentials"}
		case http.StatusForbidden:
			return nil, &AuthError{Provider: jiraProvider, Reason: "access forbidden - check API token permissions"}
		}
		return nil, &ConnError{
			Provider:   jiraProvider,
			StatusCode: jiraStatus(resp),
			Err:        fmt.Errorf("failed to verify JIRA connection: %w", err),
		}
	}
	g.logger.Info("connected to JIRA", zap.String("user", self.DisplayName))
	return &ConnectionInfo{
		User:  self.DisplayName,
		Email: self.EmailAddress,
	}, nil
}

// FindUser resolves a display name or email to a Jira account.
// It returns nil without an error when no user matches. When the
// matched user carries no account id, the query string is used as a
// fallback identifier.
func (g *JiraGateway) FindUser(ctx context.Context, query string) (*domain.UserIdentity, error) {
	users, resp, err := g.client.User.FindWithContext(ctx, query)
	if err != nil {
		return nil, &ConnError{
			Provider:   jiraProvider,
			StatusCode: jiraStatus(resp),
			Err:        fmt.Errorf("failed to search users: %w", err),
		}
	}
	if len(users) == 0 {
		g.logger.Warn("no JIRA user found", zap.String("query", query))
		return nil, nil
	}

	u := users[0]
	accountID := u.AccountID
	if accountID == "" {
		accountID = query
	}
	return &domain.UserIdentity{
		AccountID:   accountID,
		DisplayName: u.DisplayName,
		Email:       u.EmailAddress,
	}, nil
}

// UserIssues fetches issues assigned to the resolved account,
// ordered by most recently updated.
func (g *JiraGateway) UserIssues(ctx context.Context, accountID string, maxResults int) ([]domain.Issue, error) {
	jql := fmt.Sprintf("assignee = %q ORDER BY updated DESC", accountID)
	opts := &jira.SearchOptions{
		MaxResults: maxResults,
		Fields:     []string{"summary", "status", "assignee", "updated", "description", "priority", "created"},
	}

	g.logger.Debug("fetching issues", zap.String("account_id", accountID))
	found, resp, err := g.client.Issue.SearchWithContext(ctx, jql, opts)
	if err != nil {
		return nil, &ConnError{
			Provider:   jiraProvider,
			StatusCode: jiraStatus(resp),
			Err:        fmt.Errorf("failed to fetch issues: %w", err),
		}
	}

	issues := make([]domain.Issue, 0, len(found))
	for _, i := range found {
		issue := domain.Issue{Key: i.Key}
		if f := i.Fields; f != nil {
			issue.Summary = f.Summary
			issue.Description = f.Description
			issue.Created = timeOf(f.Created)
			issue.Updated = timeOf(f.Updated)
			if f.Status != nil {
				issue.Status = f.Status.Name
			}
			if f.Assignee != nil {
				issue.Assignee = f.Assignee.DisplayName
			}
			if f.Priority != nil {
				issue.Priority = f.Priority.Name
			}
		}
		issues = append(issues, issue)
	}
	g.logger.Info("fetched issues", zap.String("account_id", accountID), zap.Int("count", len(issues)))
	return issues, nil
}

func timeOf(t jira.Time) time.Time {
	return time.Time(t)
}

func jiraStatus(resp *jira.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
