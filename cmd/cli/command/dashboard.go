package command

// dashboard.go shows your reading dashboard.

import (
	"fmt"
	"strings"

	"readhub/cmd/cli/authentication"
	"readhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your reading dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return fmt.Errorf("not logged in, please run 'readhub auth login'")
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(creds.AccessToken)

		d, err := httpClient.GetDashboard()
		if err != nil {
			return fmt.Errorf("failed to get dashboard: %w", err)
		}

		fmt.Printf("%s (level %d, %d points)\n", d.User.Username, d.User.Level, d.User.Points)
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("Reading streak: %d day(s)\n", d.ReadingStreak)
		fmt.Printf("Books completed: %d\n", d.BooksCompleted)
		fmt.Printf("Books in progress: %d\n", d.BooksReading)
		fmt.Printf("Pages read: %d\n", d.TotalPagesRead)
		fmt.Printf("Summaries: %d (average rating %.1f)\n", d.SummariesCount, d.AverageRating)
		fmt.Printf("Completion rate: %d%%\n", d.CompletionRate)

		if len(d.MonthlyActivity) > 0 {
			fmt.Println(strings.Repeat("-", 50))
			fmt.Println("Monthly activity:")
			for _, m := range d.MonthlyActivity {
				fmt.Printf("  %-10s completed %-3d started %-3d\n", m.Month, m.Completed, m.Started)
			}
		}

		if len(d.CategoryBreakdown) > 0 {
			fmt.Println(strings.Repeat("-", 50))
			fmt.Println("Categories:")
			for _, cat := range d.CategoryBreakdown {
				fmt.Printf("  %-20s %d\n", cat.Category, cat.Count)
			}
		}

		if len(d.RecentProgress) > 0 {
			fmt.Println(strings.Repeat("-", 50))
			fmt.Println("Recent activity:")
			for _, p := range d.RecentProgress {
				title := fmt.Sprintf("book %d", p.BookID)
				if p.Book != nil {
					title = p.Book.Title
				}
				fmt.Printf("  %-30s %s page %d (%.0f%%)\n", title, p.Status, p.CurrentPage, p.ProgressPercentage)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
