package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teammon/teammon/internal/usecase"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start interactive mode for continuous queries",
	Long: `Start interactive mode for continuous queries.

Ask multiple questions without restarting the tool.
Type 'exit' or 'quit' to leave interactive mode.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		fmt.Println("Team Activity Monitor - interactive mode")
		fmt.Printf("Looking back %d days for GitHub activity. Type 'exit' or 'quit' to leave.\n\n", days)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("Ask a question: ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			switch strings.ToLower(question) {
			case "exit", "quit", "q":
				fmt.Println("Exiting interactive mode")
				return
			}

			answer, err := service.AnswerQuery(context.Background(), question, days)
			if err != nil {
				if errors.Is(err, usecase.ErrNoUsername) {
					fmt.Println("Could not extract username. Try asking 'What is [Name] working on?'")
				} else {
					fmt.Printf("Error: %v\n", err)
				}
				fmt.Println()
				continue
			}

			fmt.Println()
			fmt.Println(answer.Narrative)
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveCmd.Flags().IntP("days", "d", usecase.DefaultDays, "Number of days to look back for GitHub activity")
}
