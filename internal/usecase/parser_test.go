package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teammon/teammon/internal/domain"
)

func TestParser_Parse(t *testing.T) {
	testCases := []struct {
		name             string
		query            string
		expectedUsername string
		expectedIntent   domain.Intent
	}{
		{
			name:             "what is working on",
			query:            "What is John working on these days?",
			expectedUsername: "John",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "recent activity for",
			query:            "Show me recent activity for Sarah",
			expectedUsername: "Sarah",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "what has been working",
			query:            "What has Mike been working on this week?",
			expectedUsername: "Mike",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "jira tickets question",
			query:            "What JIRA tickets is John working on?",
			expectedUsername: "John",
			expectedIntent:   domain.IntentIssues,
		},
		{
			name:             "possessive with issues keyword",
			query:            "Show me Sarah's current issues",
			expectedUsername: "Sarah",
			expectedIntent:   domain.IntentIssues,
		},
		{
			name:             "committed question",
			query:            "What has Mike committed this week?",
			expectedUsername: "Mike",
			expectedIntent:   domain.IntentSourceControl,
		},
		{
			name:             "possessive pull requests",
			query:            "Show me Lisa's recent pull requests",
			expectedUsername: "Lisa",
			expectedIntent:   domain.IntentSourceControl,
		},
		{
			name:             "full name",
			query:            "What is Sarah Johnson working on?",
			expectedUsername: "Sarah Johnson",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "for pattern",
			query:            "Show recent activity for John",
			expectedUsername: "John",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "about pattern",
			query:            "Tell me about Sarah's work",
			expectedUsername: "Sarah",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "no username found",
			query:            "What is the status of the project?",
			expectedUsername: "",
			expectedIntent:   domain.IntentAll,
		},
		{
			name:             "jira tasks possessive",
			query:            "Show me John's JIRA tasks",
			expectedUsername: "John",
			expectedIntent:   domain.IntentIssues,
		},
		{
			name:             "repositories keyword",
			query:            "What repositories has Sarah committed to?",
			expectedUsername: "Sarah",
			expectedIntent:   domain.IntentSourceControl,
		},
		{
			name:             "possessive commits",
			query:            "What are Sarah's recent commits?",
			expectedUsername: "Sarah",
			expectedIntent:   domain.IntentSourceControl,
		},
		{
			name:             "both keyword families present",
			query:            "Show JIRA tickets and GitHub commits for Anna",
			expectedUsername: "Anna",
			expectedIntent:   domain.IntentAll,
		},
	}

	parser := NewParser()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := parser.Parse(tc.query)
			assert.Equal(t, tc.expectedUsername, result.Username)
			assert.Equal(t, tc.expectedIntent, result.Intent)
			assert.Equal(t, tc.query, result.RawText)
		})
	}
}

func TestParser_ParseCaseInsensitive(t *testing.T) {
	parser := NewParser()

	// Pattern matching folds case, so lowercased names in otherwise
	// well-formed questions still yield a username.
	assert.NotEmpty(t, parser.Parse("what is john working on?").Username)
	assert.NotEmpty(t, parser.Parse("WHAT IS JOHN WORKING ON?").Username)
}

func TestParser_FallbackCapitalizedToken(t *testing.T) {
	parser := NewParser()

	// No pattern matches; the first capitalized alphabetic token
	// after the leading word is used.
	result := parser.Parse("Did Robert push anything?")
	assert.Equal(t, "Robert", result.Username)

	// Tokens with punctuation are not purely alphabetic.
	result = parser.Parse("status update please")
	assert.Empty(t, result.Username)
}
