// Package config loads provider credentials and settings from the
// environment, with optional .env file support.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// JiraConfig holds the Jira instance credentials.
type JiraConfig struct {
	BaseURL  string
	Email    string
	APIToken string
}

// GitHubConfig holds the GitHub access token.
type GitHubConfig struct {
	Token string
}

// Config is the full application configuration. Credential presence
// is validated by the gateway constructors, not here.
type Config struct {
	Jira   JiraConfig
	GitHub GitHubConfig
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; a missing file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Jira: JiraConfig{
			BaseURL:  getEnv("JIRA_BASE_URL", ""),
			Email:    getEnv("JIRA_EMAIL", ""),
			APIToken: getEnv("JIRA_API_TOKEN", ""),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
