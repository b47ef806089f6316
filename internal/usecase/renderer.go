package usecase

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/domain"
)

const (
	summaryItemLimit   = 5
	narrativeItemLimit = 3
	commitMessageLimit = 60
)

// Chooser selects one of n phrasings for the narrative response.
// Production uses a randomized chooser; tests inject a fixed one.
type Chooser interface {
	Choose(n int) int
}

type randomChooser struct{}

func (randomChooser) Choose(n int) int { return rand.Intn(n) }

// NewRandomChooser returns a Chooser with randomized selection.
func NewRandomChooser() Chooser {
	return randomChooser{}
}

var greetingTemplates = []string{
	"Here's what I found about {username}'s recent activity:",
	"Let me tell you what {username} has been working on:",
	"Based on the recent data, here's what {username} is up to:",
	"I've gathered {username}'s recent activity:",
}

var noActivityTemplates = []string{
	"I couldn't find any recent activity for {username}. They might be working on something not tracked in JIRA or GitHub, or they might be on a break.",
	"It looks like {username} hasn't had any recent activity in JIRA or GitHub over the specified time period.",
	"{username} doesn't appear to have any recent activity. This could mean they're working offline or on tasks not yet committed.",
	"No recent activity found for {username} in the past {days} days. They might be in planning or research mode.",
}

// Renderer turns an ActivityRecord into a deterministic plain-text
// summary and a templated conversational narrative. Both outputs are
// pure functions of the record; the narrative varies only in which
// template phrase the Chooser picks, never in the embedded data.
type Renderer struct {
	chooser Chooser
	logger  *zap.Logger
}

// NewRenderer creates a Renderer with the given phrase-selection strategy.
func NewRenderer(chooser Chooser, logger *zap.Logger) *Renderer {
	return &Renderer{chooser: chooser, logger: logger}
}

// Summary formats the record into a fixed-structure text report.
// Each category lists at most five entries.
func (r *Renderer) Summary(rec *domain.ActivityRecord) string {
	lines := []string{fmt.Sprintf("Activity summary for %s:", rec.Username)}
	lines = append(lines, summaryIssueLines(rec.Issues)...)
	lines = append(lines, summaryCommitLines(rec.Commits)...)
	lines = append(lines, summaryPRLines(rec.PullRequests)...)

	if !rec.HasActivity {
		lines = append(lines, "\nNo recent activity found.")
	}
	if len(rec.Errors) > 0 {
		lines = append(lines, "\nErrors encountered:")
		for _, e := range rec.Errors {
			lines = append(lines, "  - "+e)
		}
	}
	return strings.Join(lines, "\n")
}

func summaryIssueLines(issues []domain.Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("\nJIRA Issues (%d):", len(issues))}
	for _, issue := range issues[:min(len(issues), summaryItemLimit)] {
		lines = append(lines, fmt.Sprintf("  - [%s] %s (%s)", issue.Key, issue.Summary, issue.Status))
	}
	if len(issues) > summaryItemLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(issues)-summaryItemLimit))
	}
	return lines
}

func summaryCommitLines(commits []domain.Commit) []string {
	if len(commits) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("\nGitHub Commits (%d):", len(commits))}
	for _, commit := range commits[:min(len(commits), summaryItemLimit)] {
		message := truncate(firstLine(commit.Message), commitMessageLimit)
		lines = append(lines, fmt.Sprintf("  - [%s] %s", commit.Repository, message))
	}
	if len(commits) > summaryItemLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(commits)-summaryItemLimit))
	}
	return lines
}

func summaryPRLines(prs []domain.PullRequest) []string {
	if len(prs) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("\nGitHub Pull Requests (%d):", len(prs))}
	for _, pr := range prs[:min(len(prs), summaryItemLimit)] {
		lines = append(lines, fmt.Sprintf("  - [%s] #%d: %s (%s)", pr.Repository, pr.Number, pr.Title, pr.State))
	}
	if len(prs) > summaryItemLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(prs)-summaryItemLimit))
	}
	return lines
}

// Narrative generates a conversational response describing the
// record. The days window only appears in no-activity phrasings.
func (r *Renderer) Narrative(rec *domain.ActivityRecord, days int) string {
	username := rec.Username
	if username == "" {
		username = "the user"
	}

	if !rec.HasActivity {
		response := expandTemplate(noActivityTemplates[r.chooser.Choose(len(noActivityTemplates))], username, days)
		if len(rec.Errors) > 0 {
			response += "\n\nNote: There were some issues fetching data:"
			for _, e := range rec.Errors {
				response += "\n  • " + e
			}
		}
		r.logger.Debug("generated no-activity response", zap.String("user", username))
		return response
	}

	greeting := expandTemplate(greetingTemplates[r.chooser.Choose(len(greetingTemplates))], username, days)
	sections := []string{greeting, ""}

	issueSection := narrativeIssueSection(rec.Issues)
	if issueSection != "" {
		sections = append(sections, issueSection)
	}

	commitSection := narrativeCommitSection(rec.Commits)
	if commitSection != "" {
		if issueSection != "" {
			sections = append(sections, "")
		}
		sections = append(sections, commitSection)
	}

	prSection := narrativePRSection(rec.PullRequests)
	if prSection != "" {
		if issueSection != "" || commitSection != "" {
			sections = append(sections, "")
		}
		sections = append(sections, prSection)
	}

	if statement := summaryStatement(rec); statement != "" {
		sections = append(sections, statement)
	}

	if len(rec.Errors) > 0 {
		sections = append(sections, "\n\nNote: Some data may be incomplete due to errors:")
		for _, e := range rec.Errors {
			sections = append(sections, "  • "+e)
		}
	}

	r.logger.Debug("generated activity response", zap.String("user", username))
	return strings.Join(sections, "\n")
}

func narrativeIssueSection(issues []domain.Issue) string {
	if len(issues) == 0 {
		return ""
	}

	if len(issues) == 1 {
		issue := issues[0]
		return fmt.Sprintf("On the JIRA side, they're working on %s: %q (currently %s).",
			issue.Key, issue.Summary, issue.Status)
	}

	var inProgress, done, todo []domain.Issue
	for _, issue := range issues {
		switch issue.Status {
		case "In Progress":
			inProgress = append(inProgress, issue)
		case "Done":
			done = append(done, issue)
		case "To Do", "Open", "Backlog":
			todo = append(todo, issue)
		}
	}

	lines := []string{fmt.Sprintf("They have %d JIRA tickets on their plate:", len(issues))}

	if len(inProgress) == 1 {
		lines = append(lines, fmt.Sprintf("  • Currently working on %s: %q", inProgress[0].Key, inProgress[0].Summary))
	} else if len(inProgress) > 1 {
		lines = append(lines, fmt.Sprintf("  • %d issues in progress:", len(inProgress)))
		for _, issue := range inProgress[:min(len(inProgress), narrativeItemLimit)] {
			lines = append(lines, fmt.Sprintf("    - %s: %q", issue.Key, issue.Summary))
		}
		if len(inProgress) > narrativeItemLimit {
			lines = append(lines, fmt.Sprintf("    ... and %d more", len(inProgress)-narrativeItemLimit))
		}
	}

	if len(done) == 1 {
		lines = append(lines, fmt.Sprintf("  • Recently completed %s: %q", done[0].Key, done[0].Summary))
	} else if len(done) > 1 {
		lines = append(lines, fmt.Sprintf("  • %d recently completed issues", len(done)))
	}

	if len(todo) > 0 {
		lines = append(lines, fmt.Sprintf("  • %d items in backlog/planning", len(todo)))
	}

	return strings.Join(lines, "\n")
}

func narrativeCommitSection(commits []domain.Commit) string {
	if len(commits) == 0 {
		return ""
	}

	if len(commits) == 1 {
		return fmt.Sprintf("They pushed 1 commit to %s: %q", commits[0].Repository, firstLine(commits[0].Message))
	}

	// Group by repository, preserving first-seen order.
	var repoOrder []string
	byRepo := map[string]int{}
	for _, commit := range commits {
		if _, seen := byRepo[commit.Repository]; !seen {
			repoOrder = append(repoOrder, commit.Repository)
		}
		byRepo[commit.Repository]++
	}

	var lines []string
	if len(repoOrder) == 1 {
		lines = append(lines, fmt.Sprintf("They've made %d commits to %s, including:", len(commits), repoOrder[0]))
		for _, commit := range commits[:min(len(commits), narrativeItemLimit)] {
			lines = append(lines, fmt.Sprintf("  • %q", truncate(firstLine(commit.Message), commitMessageLimit)))
		}
		if len(commits) > narrativeItemLimit {
			lines = append(lines, fmt.Sprintf("  ... and %d more commits", len(commits)-narrativeItemLimit))
		}
	} else {
		lines = append(lines, fmt.Sprintf("They've been active across %d repositories with %d total commits:",
			len(repoOrder), len(commits)))
		for _, repo := range repoOrder[:min(len(repoOrder), narrativeItemLimit)] {
			lines = append(lines, fmt.Sprintf("  • %s: %s", repo, pluralize(byRepo[repo], "commit")))
		}
		if len(repoOrder) > narrativeItemLimit {
			lines = append(lines, fmt.Sprintf("  ... and %d more repositories", len(repoOrder)-narrativeItemLimit))
		}
	}

	return strings.Join(lines, "\n")
}

func narrativePRSection(prs []domain.PullRequest) string {
	if len(prs) == 0 {
		return ""
	}

	if len(prs) == 1 {
		pr := prs[0]
		stateStr := "recently closed a"
		if pr.State == "open" {
			stateStr = "has an open"
		}
		return fmt.Sprintf("They %s pull request: #%d %q in %s", stateStr, pr.Number, pr.Title, pr.Repository)
	}

	var open, closed int
	for _, pr := range prs {
		if pr.State == "open" {
			open++
		} else {
			closed++
		}
	}

	var parts []string
	if open > 0 {
		parts = append(parts, fmt.Sprintf("%d open", open))
	}
	if closed > 0 {
		parts = append(parts, fmt.Sprintf("%d closed", closed))
	}

	lines := []string{fmt.Sprintf("They have %s pull requests:", strings.Join(parts, " and "))}
	for _, pr := range prs[:min(len(prs), narrativeItemLimit)] {
		lines = append(lines, fmt.Sprintf("  • #%d: %q in %s", pr.Number, pr.Title, pr.Repository))
	}
	if len(prs) > narrativeItemLimit {
		lines = append(lines, fmt.Sprintf("  ... and %d more", len(prs)-narrativeItemLimit))
	}

	return strings.Join(lines, "\n")
}

func summaryStatement(rec *domain.ActivityRecord) string {
	var parts []string
	if n := len(rec.Issues); n > 0 {
		parts = append(parts, pluralize(n, "JIRA issue"))
	}
	if n := len(rec.Commits); n > 0 {
		parts = append(parts, pluralize(n, "commit"))
	}
	if n := len(rec.PullRequests); n > 0 {
		parts = append(parts, pluralize(n, "pull request"))
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("\n\nIn summary, they're actively working on %s.", parts[0])
	case 2:
		return fmt.Sprintf("\n\nIn summary, they're juggling %s and %s.", parts[0], parts[1])
	default:
		return fmt.Sprintf("\n\nIn summary, they're balancing %s, %s, and %s.", parts[0], parts[1], parts[2])
	}
}

func expandTemplate(t, username string, days int) string {
	return strings.NewReplacer("{username}", username, "{days}", strconv.Itoa(days)).Replace(t)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
