package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teammon/teammon/internal/usecase"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a natural language question about a team member's activity",
	Long: `Query team member activity with a natural language question.

Examples:
  teammon query "What is Sarah working on?"
  teammon query "Show me John's recent commits" --days 14`,
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			fatalf("Error: no question provided.\nTry: teammon query \"What is John working on?\"")
		}

		days, _ := cmd.Flags().GetInt("days")
		if days < 1 || days > 365 {
			fatalf("Error: days must be between 1 and 365")
		}

		logger := newLogger(cmd)
		defer logger.Sync() //nolint:errcheck

		service, _, _, err := buildPipeline(logger)
		if err != nil {
			fatalf("Error: %v", err)
		}

		answer, err := service.AnswerQuery(context.Background(), question, days)
		if err != nil {
			if errors.Is(err, usecase.ErrNoUsername) {
				fatalf("Error: could not extract username from query: %s\nTry asking 'What is [Name] working on?'", question)
			}
			fatalf("Error: %v", err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := json.MarshalIndent(answer, "", "  ")
			if err != nil {
				fatalf("Failed to marshal result to JSON: %v", err)
			}
			fmt.Println(string(data))
			return
		}

		fmt.Println(answer.Narrative)
		if showSummary, _ := cmd.Flags().GetBool("summary"); showSummary {
			fmt.Println()
			fmt.Println(answer.Summary)
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntP("days", "d", usecase.DefaultDays, "Number of days to look back for GitHub activity")
	queryCmd.Flags().Bool("json", false, "Output the full result as JSON")
	queryCmd.Flags().Bool("summary", false, "Also print the plain-text activity summary")
}
