package command

// leaderboard.go shows the ranked board.

import (
	"fmt"

	"readhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		lbType, _ := cmd.Flags().GetString("type")
		period, _ := cmd.Flags().GetString("period")
		limit, _ := cmd.Flags().GetInt("limit")

		httpClient := client.NewHTTPClient(apiURL)
		board, err := httpClient.GetLeaderboard(lbType, period, limit)
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}

		if len(board.Entries) == 0 {
			fmt.Println("Leaderboard is empty.")
			return nil
		}

		fmt.Printf("Leaderboard (%s, %s):\n\n", board.Type, board.Period)
		fmt.Printf("%-5s %-20s %-8s %-6s %-10s %-7s\n", "Rank", "Name", "Points", "Level", "Completed", "Streak")
		for _, e := range board.Entries {
			name := e.DisplayName
			if name == "" {
				name = e.Username
			}
			fmt.Printf("%-5d %-20s %-8d %-6d %-10d %-7d\n",
				e.Rank, name, e.Points, e.Level, e.BooksCompleted, e.ReadingStreak)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().StringP("type", "t", "students", "Board type (students, teachers, all)")
	leaderboardCmd.Flags().StringP("period", "p", "all", "Time window (all, week, month)")
	leaderboardCmd.Flags().IntP("limit", "l", 10, "Number of entries")
}
