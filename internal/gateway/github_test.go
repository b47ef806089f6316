package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupGitHubGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupGitHubGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        zap.NewNop(),
	}
	return gateway, server
}

func TestGitHubGateway_UserCommits(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedCount  int
		expectError    bool
		expectedStatus int
	}{
		{
			name: "happy path - parses commit fields",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.String(), "/search/commits")
				assert.Contains(t, r.URL.Query().Get("q"), "author:any-user")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 2, "items": [
					{"sha": "abc123", "html_url": "https://github.com/org/repo-a/commit/abc123",
					 "commit": {"message": "Fix bug\n\nlonger body", "author": {"name": "John", "date": "2026-08-20T10:00:00Z"}},
					 "repository": {"full_name": "org/repo-a"}},
					{"sha": "def456",
					 "commit": {"message": "Add tests", "author": {"name": "John", "date": "2026-08-21T10:00:00Z"}},
					 "repository": {"full_name": "org/repo-b"}}
				]}`)
			},
			expectedCount: 2,
		},
		{
			name: "error case - API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupGitHubGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			commits, err := gateway.UserCommits(context.Background(), "any-user", 7, 100)
			if tc.expectError {
				require.Error(t, err)
				var connErr *ConnError
				require.ErrorAs(t, err, &connErr)
				assert.Equal(t, tc.expectedStatus, connErr.StatusCode)
				assert.Contains(t, err.Error(), "failed to fetch commits")
				return
			}

			require.NoError(t, err)
			require.Len(t, commits, tc.expectedCount)
			assert.Equal(t, "abc123", commits[0].SHA)
			assert.Equal(t, "Fix bug\n\nlonger body", commits[0].Message)
			assert.Equal(t, "John", commits[0].Author)
			assert.Equal(t, "org/repo-a", commits[0].Repository)
			assert.Equal(t, "https://github.com/org/repo-a/commit/abc123", commits[0].URL)
			assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), commits[0].Date)
		})
	}
}

func TestGitHubGateway_UserPullRequests(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expectedStates []string
		expectError    bool
	}{
		{
			name: "happy path - maps states to open and closed",
			responseBody: `{"data":{"search":{"edges":[
				{"node":{"__typename":"PullRequest","number":42,"title":"Add cache","state":"OPEN","createdAt":"2026-08-20T10:00:00Z","updatedAt":"2026-08-21T10:00:00Z","url":"https://github.com/org/repo/pull/42","author":{"login":"john"},"repository":{"nameWithOwner":"org/repo"}}},
				{"node":{"__typename":"PullRequest","number":43,"title":"Drop cache","state":"MERGED","createdAt":"2026-08-20T10:00:00Z","updatedAt":"2026-08-21T10:00:00Z","url":"https://github.com/org/repo/pull/43","author":{"login":"john"},"repository":{"nameWithOwner":"org/repo"}}},
				{"node":{"__typename":"PullRequest","number":44,"title":"Tune cache","state":"CLOSED","createdAt":"2026-08-20T10:00:00Z","updatedAt":"2026-08-21T10:00:00Z","url":"https://github.com/org/repo/pull/44","author":{"login":"john"},"repository":{"nameWithOwner":"org/repo"}}}
			]}}}`,
			expectedStates: []string{"open", "closed", "closed"},
		},
		{
			name:         "error case - GraphQL error response",
			responseBody: `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "author:any-user")

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupGitHubGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			prs, err := gateway.UserPullRequests(context.Background(), "any-user", 7, 100)
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to fetch pull requests")
				return
			}

			require.NoError(t, err)
			require.Len(t, prs, len(tc.expectedStates))
			for i, state := range tc.expectedStates {
				assert.Equal(t, state, prs[i].State)
			}
			assert.Equal(t, 42, prs[0].Number)
			assert.Equal(t, "Add cache", prs[0].Title)
			assert.Equal(t, "org/repo", prs[0].Repository)
			assert.Equal(t, "john", prs[0].Author)
			assert.Equal(t, "https://github.com/org/repo/pull/42", prs[0].URL)
		})
	}
}

func TestGitHubGateway_TestConnection(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/user")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"login": "john", "name": "John Smith", "email": "john@example.com"}`)
		}
		gateway, server := setupGitHubGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		info, err := gateway.TestConnection(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "john", info.User)
		assert.Equal(t, "John Smith", info.Name)
	})

	t.Run("invalid token", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
		}
		gateway, server := setupGitHubGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		_, err := gateway.TestConnection(context.Background())
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Error(), "invalid GitHub token")
	})
}

func TestNewGitHubGateway_MissingToken(t *testing.T) {
	_, err := NewGitHubGateway("", zap.NewNop())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "GitHub", authErr.Provider)
}
