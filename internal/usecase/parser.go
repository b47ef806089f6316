// Package usecase contains the business logic of the application:
// query interpretation, activity aggregation and response rendering.
package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/teammon/teammon/internal/domain"
)

// namePattern matches one or more consecutive capitalized words.
// Matching is case-insensitive overall, so lowercased names in
// otherwise well-formed questions are still picked up.
const namePattern = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`

// usernamePatterns are tried in priority order; the first match wins.
var usernamePatterns = []*regexp.Regexp{
	// "What is [Name] working on"
	regexp.MustCompile(`(?i)what\s+is\s+` + namePattern + `\s+working\s+on`),
	// "recent activity for [Name]"
	regexp.MustCompile(`(?i)recent\s+activity\s+for\s+` + namePattern),
	// "Show me [Name]'s" (possessive)
	regexp.MustCompile(`(?i)show\s+me\s+` + namePattern + `'s\s+`),
	// "What are [Name]'s" (possessive)
	regexp.MustCompile(`(?i)what\s+are\s+` + namePattern + `'s\s+`),
	// "What has [Name] committed/been working"
	regexp.MustCompile(`(?i)what\s+has\s+` + namePattern + `\s+(?:committed|been\s+working)`),
	// "What JIRA tickets is [Name] working on"
	regexp.MustCompile(`(?i)what\s+(?:jira\s+)?tickets?\s+is\s+` + namePattern + `\s+working`),
	// Generic: "for [Name]" or "about [Name]"
	regexp.MustCompile(`(?i)(?:for|about)\s+` + namePattern),
}

var (
	issueKeywords         = []string{"jira", "ticket", "issue", "task"}
	sourceControlKeywords = []string{"github", "commit", "pull request", " pr ", "repository", "repo"}
)

// Parser turns free-text questions about team member activity into a
// structured ParsedQuery. Parsing never fails; on total ambiguity the
// username is left empty.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts a username and an intent from a natural language query.
func (p *Parser) Parse(text string) domain.ParsedQuery {
	return domain.ParsedQuery{
		Username: extractUsername(text),
		Intent:   classifyIntent(text),
		RawText:  text,
	}
}

func extractUsername(text string) string {
	for _, re := range usernamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	// Fallback: the first capitalized purely-alphabetic token after
	// the leading word.
	words := strings.Fields(text)
	for i, word := range words {
		if i == 0 {
			continue
		}
		if isCapitalizedWord(word) {
			return word
		}
	}
	return ""
}

func isCapitalizedWord(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func classifyIntent(text string) domain.Intent {
	lower := strings.ToLower(text)
	hasIssue := containsAny(lower, issueKeywords)
	hasSourceControl := containsAny(lower, sourceControlKeywords)

	switch {
	case hasIssue && !hasSourceControl:
		return domain.IntentIssues
	case hasSourceControl && !hasIssue:
		return domain.IntentSourceControl
	default:
		return domain.IntentAll
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
