package command

// books.go browses the catalog: list with filters, detail view, categories.

import (
	"fmt"
	"strconv"
	"strings"

	"readhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Book catalog commands",
	Long:  `Browse the book catalog: list, search, view details and categories.`,
}

var listBooksCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts client.ListBooksOptions
		opts.Search, _ = cmd.Flags().GetString("search")
		opts.Category, _ = cmd.Flags().GetString("category")
		opts.Difficulty, _ = cmd.Flags().GetString("difficulty")
		opts.Page, _ = cmd.Flags().GetInt("page")
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		httpClient := client.NewHTTPClient(apiURL)
		result, err := httpClient.ListBooks(opts)
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}

		if len(result.Books) == 0 {
			fmt.Println("No books found.")
			return nil
		}

		fmt.Printf("Showing %d of %d books (page %d/%d):\n\n",
			len(result.Books), result.Pagination.Total, result.Pagination.Page, result.Pagination.TotalPages)
		for _, b := range result.Books {
			fmt.Printf("ID: %d\n", b.ID)
			fmt.Printf("Title: %s\n", b.Title)
			fmt.Printf("Author: %s\n", b.Author)
			fmt.Printf("Category: %s (%s)\n", b.Category, b.Difficulty)
			if b.Pages > 0 {
				fmt.Printf("Pages: %d\n", b.Pages)
			}
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var getBookCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one book with its reading stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}

		httpClient := client.NewHTTPClient(apiURL)
		book, err := httpClient.GetBook(id)
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		fmt.Printf("ID: %d\n", book.ID)
		fmt.Printf("Title: %s\n", book.Title)
		fmt.Printf("Author: %s\n", book.Author)
		fmt.Printf("Category: %s\n", book.Category)
		fmt.Printf("Difficulty: %s\n", book.Difficulty)
		fmt.Printf("Pages: %d\n", book.Pages)
		fmt.Printf("Language: %s\n", book.Language)
		if book.ISBN != nil {
			fmt.Printf("ISBN: %s\n", *book.ISBN)
		}
		if book.Description != nil {
			fmt.Printf("Description: %s\n", *book.Description)
		}
		fmt.Println(strings.Repeat("-", 50))
		fmt.Printf("Readers: %d (%d completed)\n", book.Stats.ReadersCount, book.Stats.CompletedCount)
		fmt.Printf("Summaries: %d, average rating %.1f\n", book.Stats.SummariesCount, book.Stats.AverageRating)
		return nil
	},
}

var bookCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		categories, err := httpClient.GetCategories()
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}

		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}
		for _, cat := range categories {
			fmt.Println(cat)
		}
		return nil
	},
}

var bookSummariesCmd = &cobra.Command{
	Use:   "summaries [book-id]",
	Short: "List summaries written for a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}

		httpClient := client.NewHTTPClient(apiURL)
		summaries, err := httpClient.ListBookSummaries(id)
		if err != nil {
			return fmt.Errorf("failed to list summaries: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No summaries yet.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("ID: %d\n", s.ID)
			fmt.Printf("By: %s\n", s.Username)
			if s.Title != nil {
				fmt.Printf("Title: %s\n", *s.Title)
			}
			if s.Rating != nil {
				fmt.Printf("Rating: %d/5\n", *s.Rating)
			} else {
				fmt.Println("Rating: not rated yet")
			}
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(listBooksCmd)
	booksCmd.AddCommand(getBookCmd)
	booksCmd.AddCommand(bookCategoriesCmd)
	booksCmd.AddCommand(bookSummariesCmd)

	listBooksCmd.Flags().StringP("search", "s", "", "Search titles, authors and ISBNs")
	listBooksCmd.Flags().StringP("category", "c", "", "Filter by category")
	listBooksCmd.Flags().StringP("difficulty", "d", "", "Filter by difficulty (BEGINNER, INTERMEDIATE, ADVANCED)")
	listBooksCmd.Flags().Int("page", 1, "Page number")
	listBooksCmd.Flags().Int("limit", 20, "Results per page")
}
