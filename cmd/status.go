package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/config"
	"github.com/teammon/teammon/internal/gateway"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check API connection status for JIRA and GitHub",
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		defer logger.Sync() //nolint:errcheck

		ctx := context.Background()
		cfg := config.Load()

		jiraStatus := checkJira(ctx, cfg, logger)
		githubStatus := checkGitHub(ctx, cfg, logger)

		fmt.Printf("JIRA:   %s\n", jiraStatus)
		fmt.Printf("GitHub: %s\n", githubStatus)

		if !connected(jiraStatus) || !connected(githubStatus) {
			os.Exit(1)
		}
	},
}

func checkJira(ctx context.Context, cfg *config.Config, logger *zap.Logger) string {
	gw, err := gateway.NewJiraGateway(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, logger)
	if err != nil {
		return "auth failed: " + err.Error()
	}
	info, err := gw.TestConnection(ctx)
	if err != nil {
		return "connection failed: " + err.Error()
	}
	return "connected as " + info.User
}

func checkGitHub(ctx context.Context, cfg *config.Config, logger *zap.Logger) string {
	gw, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger)
	if err != nil {
		return "auth failed: " + err.Error()
	}
	info, err := gw.TestConnection(ctx)
	if err != nil {
		return "connection failed: " + err.Error()
	}
	return "connected as " + info.User
}

func connected(status string) bool {
	return strings.HasPrefix(status, "connected")
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
