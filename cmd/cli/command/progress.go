package command

// progress.go tracks reading: update your position, list rows, view one book.

import (
	"fmt"
	"strconv"
	"strings"

	"readhub/cmd/cli/authentication"
	"readhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Reading progress commands",
	Long:  `Track your reading: update the page you are on, mark books completed, review your history.`,
}

var updateProgressCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your progress on a book",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		var req client.UpdateProgressRequest
		req.BookID, _ = cmd.Flags().GetInt64("book")
		req.CurrentPage, _ = cmd.Flags().GetInt("page")
		req.Status, _ = cmd.Flags().GetString("status")
		if cmd.Flags().Changed("total-pages") {
			totalPages, _ := cmd.Flags().GetInt("total-pages")
			req.TotalPages = &totalPages
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		result, err := httpClient.UpdateProgress(&req)
		if err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		p := result.Progress
		fmt.Printf("✓ Progress saved: page %d of %d (%.1f%%), status %s\n",
			p.CurrentPage, p.TotalPages, p.ProgressPercentage, p.Status)
		if result.PointsAwarded > 0 {
			fmt.Printf("✓ +%d points! Total: %d (level %d)\n",
				result.PointsAwarded, result.TotalPoints, result.Level)
		}
		return nil
	},
}

var listProgressCmd = &cobra.Command{
	Use:   "list",
	Short: "List all your tracked books",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		rows, err := httpClient.ListProgress()
		if err != nil {
			return fmt.Errorf("failed to list progress: %w", err)
		}

		if len(rows) == 0 {
			fmt.Println("No reading progress yet. Start with 'readhub progress update'.")
			return nil
		}

		for _, p := range rows {
			if p.Book != nil {
				fmt.Printf("Book: %s (ID %d)\n", p.Book.Title, p.BookID)
			} else {
				fmt.Printf("Book ID: %d\n", p.BookID)
			}
			fmt.Printf("Status: %s\n", p.Status)
			fmt.Printf("Page: %d of %d (%.1f%%)\n", p.CurrentPage, p.TotalPages, p.ProgressPercentage)
			fmt.Printf("Last update: %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var getProgressCmd = &cobra.Command{
	Use:   "get [book-id]",
	Short: "Show your progress on one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		bookID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		p, err := httpClient.GetProgress(bookID)
		if err != nil {
			return fmt.Errorf("failed to get progress: %w", err)
		}

		if p.Book != nil {
			fmt.Printf("Book: %s\n", p.Book.Title)
		}
		fmt.Printf("Status: %s\n", p.Status)
		fmt.Printf("Page: %d of %d (%.1f%%)\n", p.CurrentPage, p.TotalPages, p.ProgressPercentage)
		if p.StartedAt != nil {
			fmt.Printf("Started: %s\n", p.StartedAt.Format("2006-01-02"))
		}
		if p.CompletedAt != nil {
			fmt.Printf("Completed: %s\n", p.CompletedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(updateProgressCmd)
	progressCmd.AddCommand(listProgressCmd)
	progressCmd.AddCommand(getProgressCmd)

	updateProgressCmd.Flags().Int64P("book", "b", 0, "Book ID")
	updateProgressCmd.Flags().IntP("page", "p", 0, "Current page")
	updateProgressCmd.Flags().StringP("status", "s", "", "Reading status (NOT_STARTED, READING, PAUSED, COMPLETED)")
	updateProgressCmd.Flags().Int("total-pages", 0, "Override the page count for your edition")
	updateProgressCmd.MarkFlagRequired("book")
}
