package command

// summary.go submits and rates book summaries.

import (
	"fmt"
	"strconv"

	"readhub/cmd/cli/authentication"
	"readhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Book summary commands",
	Long:  `Submit a summary after reading a book, view summaries, or rate one as a teacher.`,
}

var createSummaryCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit your summary of a book",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		var req client.CreateSummaryRequest
		req.BookID, _ = cmd.Flags().GetInt64("book")
		req.Content, _ = cmd.Flags().GetString("content")
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			req.Title = &title
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		summary, err := httpClient.CreateSummary(&req)
		if err != nil {
			return fmt.Errorf("failed to submit summary: %w", err)
		}

		fmt.Printf("✓ Summary submitted (ID %d). A teacher will rate it.\n", summary.ID)
		return nil
	},
}

var getSummaryCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid summary ID: %w", err)
		}

		httpClient := client.NewHTTPClient(apiURL)
		s, err := httpClient.GetSummary(id)
		if err != nil {
			return fmt.Errorf("failed to get summary: %w", err)
		}

		fmt.Printf("ID: %d\n", s.ID)
		fmt.Printf("Book: %s (ID %d)\n", s.BookTitle, s.BookID)
		fmt.Printf("By: %s\n", s.Username)
		if s.Title != nil {
			fmt.Printf("Title: %s\n", *s.Title)
		}
		if s.Rating != nil {
			fmt.Printf("Rating: %d/5\n", *s.Rating)
		} else {
			fmt.Println("Rating: not rated yet")
		}
		fmt.Printf("\n%s\n", s.Content)
		return nil
	},
}

var rateSummaryCmd = &cobra.Command{
	Use:   "rate [id]",
	Short: "Rate a summary 1 to 5 (teachers only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid summary ID: %w", err)
		}

		var req client.RateSummaryRequest
		req.Rating, _ = cmd.Flags().GetInt("rating")
		req.Feedback, _ = cmd.Flags().GetString("feedback")

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		result, err := httpClient.RateSummary(id, &req)
		if err != nil {
			return fmt.Errorf("failed to rate summary: %w", err)
		}

		fmt.Printf("✓ Rated %d/5.\n", req.Rating)
		if result.PointsAwarded > 0 {
			fmt.Printf("✓ The author earned %d points.\n", result.PointsAwarded)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.AddCommand(createSummaryCmd)
	summaryCmd.AddCommand(getSummaryCmd)
	summaryCmd.AddCommand(rateSummaryCmd)

	createSummaryCmd.Flags().Int64P("book", "b", 0, "Book ID")
	createSummaryCmd.Flags().StringP("title", "t", "", "Optional summary title")
	createSummaryCmd.Flags().StringP("content", "c", "", "Summary text")
	createSummaryCmd.MarkFlagRequired("book")
	createSummaryCmd.MarkFlagRequired("content")

	rateSummaryCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	rateSummaryCmd.Flags().StringP("feedback", "f", "", "Optional written feedback for the author")
	rateSummaryCmd.MarkFlagRequired("rating")
}
