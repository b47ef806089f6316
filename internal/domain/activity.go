// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Intent classifies what kind of activity data a query is asking for.
type Intent string

const (
	// IntentIssues limits the lookup to the issue tracker.
	IntentIssues Intent = "jira"
	// IntentSourceControl limits the lookup to source control.
	IntentSourceControl Intent = "github"
	// IntentAll queries both providers.
	IntentAll Intent = "all"
)

// ParsedQuery is the structured form of a free-text question.
// Username is empty when no name could be extracted.
type ParsedQuery struct {
	Username string `json:"username"`
	Intent   Intent `json:"query_type"`
	RawText  string `json:"original_query"`
}

// UserIdentity is a provider-internal account resolved from a
// free-text name or email before issuing a data query.
type UserIdentity struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// Issue is a single issue-tracker item assigned to a user.
// Status is an open-ended string from the external system.
type Issue struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Status      string    `json:"status"`
	Assignee    string    `json:"assignee,omitempty"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
}

// Commit is a single source-control commit authored by a user.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	Author     string    `json:"author,omitempty"`
	Date       time.Time `json:"date"`
	Repository string    `json:"repository"`
	URL        string    `json:"url,omitempty"`
}

// PullRequest is a single pull request authored by a user.
// State is either "open" or "closed".
type PullRequest struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Repository string    `json:"repository"`
	URL        string    `json:"url,omitempty"`
	Author     string    `json:"author,omitempty"`
}

// ActivityRecord is the aggregate result of one query's worth of
// provider data plus bookkeeping. HasActivity is true iff at least
// one of the three slices is non-empty; Errors holds one message per
// failed sub-fetch, in a stable order (issues, commits, PRs).
type ActivityRecord struct {
	Username     string        `json:"username"`
	Issues       []Issue       `json:"jira_issues"`
	Commits      []Commit      `json:"github_commits"`
	PullRequests []PullRequest `json:"github_prs"`
	HasActivity  bool          `json:"has_activity"`
	Errors       []string      `json:"errors"`
}
