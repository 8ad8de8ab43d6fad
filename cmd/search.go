package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelist/reelist/explorer"
	"github.com/reelist/reelist/omdb"
	"github.com/reelist/reelist/watchlist"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the catalog by title",
	Long:  `Search OMDb for titles matching the term and print one page of results.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "result page to fetch")
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := strings.Join(args, " ")
	page := explorer.ClampPage(pageFlag, 0)

	logger.Info().Str("term", term).Int("page", page).Msg("Searching catalog")

	ctx := context.Background()
	result, err := catalogClient.Search(ctx, term, page)
	if err != nil {
		if msg, ok := omdb.IsUpstream(err); ok {
			fmt.Println(msg)
			return nil
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}

	watched := store.Load()

	fmt.Println()
	printSearchItems(result.Items, watched)

	if pageCount := explorer.PageCount(result.TotalCount); pageCount > 1 {
		fmt.Printf("\nPage %d/%d (%d results)\n", page, pageCount, result.TotalCount)
	}

	return nil
}

func printSearchItems(items []omdb.SearchItem, watched []watchlist.Entry) {
	for i, item := range items {
		marker := " "
		for _, w := range watched {
			if w.ID == item.ID {
				marker = "★"
				break
			}
		}
		fmt.Printf("%2d. %s %s (%s)  [%s]\n", i+1, marker, item.Title, item.Year, item.ID)
	}
}
