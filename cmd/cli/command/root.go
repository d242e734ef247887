package command

// root.go defines the root command for the readhub CLI.
// Global flags shared by every subcommand live here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiURL string // API server base URL, set via --api

var rootCmd = &cobra.Command{
	Use:   "readhub",
	Short: "readhub - reading tracker command line interface",
	Long: `readhub is a command line client for the ReadHub API. Use it to:
- Browse the book catalog
- Track your reading progress and earn points
- Submit book summaries and, as a teacher, rate them
- Check the leaderboard and your dashboard

Use "readhub [command] -h" to see the flags for each command.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API server URL")
}
