package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teammon/teammon/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the Team Activity Monitor API server that provides REST
endpoints for querying team member activities.

Examples:
  teammon serve
  teammon serve --port 8000
  teammon serve --host localhost --port 8080`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")

		logger := newLogger(cmd)
		defer logger.Sync() //nolint:errcheck

		service, jiraGW, githubGW, err := buildPipeline(logger)
		if err != nil {
			fatalf("Error: %v", err)
		}

		handler := transport.NewHandler(service, jiraGW, githubGW, logger)
		addr := fmt.Sprintf("%s:%d", host, port)
		server := &http.Server{
			Addr:              addr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		logger.Info("starting API server", zap.String("addr", addr))
		fmt.Printf("Team Activity Monitor API listening on %s\n", addr)
		if err := server.ListenAndServe(); err != nil {
			fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().IntP("port", "p", 5000, "Port to bind to")
}
