// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/config"
	"github.com/teammon/teammon/internal/gateway"
	"github.com/teammon/teammon/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "teammon",
	Short: "Query team member activity from JIRA and GitHub.",
	Long: `teammon answers natural language questions about what team members
are working on, combining JIRA issues with GitHub commits and pull
requests into a single narrative response.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the command logger. Without --verbose only errors
// are emitted, keeping stdout clean for command output.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildPipeline constructs the provider gateways and the query
// service from environment configuration.
func buildPipeline(logger *zap.Logger) (*usecase.Service, *gateway.JiraGateway, *gateway.GitHubGateway, error) {
	cfg := config.Load()

	jiraGW, err := gateway.NewJiraGateway(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	githubGW, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	aggregator := usecase.NewAggregator(jiraGW, githubGW, logger)
	renderer := usecase.NewRenderer(usecase.NewRandomChooser(), logger)
	service := usecase.NewService(usecase.NewParser(), aggregator, renderer, logger)
	return service, jiraGW, githubGW, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
