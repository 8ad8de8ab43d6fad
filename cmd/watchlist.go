package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelist/reelist/filter"
	"github.com/reelist/reelist/omdb"
	"github.com/reelist/reelist/watchlist"
)

// watchlistCmd groups the watchlist subcommands
var watchlistCmd = &cobra.Command{
	Use:     "watchlist",
	Aliases: []string{"wl"},
	Short:   "Manage the persisted watchlist",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved entries",
	Long:  `List the watchlist, optionally narrowed by a filter expression like 'Year >= 2000 and hasPoster()'.`,
	RunE:  runWatchlistList,
}

var watchlistToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add or remove an entry by IMDb ID",
	Long: `Toggle an entry's membership: absent entries are added (their details are
fetched from the catalog), present entries are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchlistToggle,
}

var watchlistRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch details for all saved entries",
	RunE:  runWatchlistRefresh,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistToggleCmd)
	watchlistCmd.AddCommand(watchlistRefreshCmd)

	watchlistListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
}

func runWatchlistList(cmd *cobra.Command, args []string) error {
	match, err := filter.Compile(filterExpr)
	if err != nil {
		return err
	}

	list := filter.Apply(store.Load(), match)
	if len(list) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}

	fmt.Printf("\n%d entries:\n", len(list))
	for i, entry := range list {
		if entry.Year != "" {
			fmt.Printf("%2d. %s (%s)  [%s]\n", i+1, entry.Title, entry.Year, entry.ID)
		} else {
			fmt.Printf("%2d. %s  [%s]\n", i+1, entry.Title, entry.ID)
		}
	}

	return nil
}

func runWatchlistToggle(cmd *cobra.Command, args []string) error {
	id := args[0]
	list := store.Load()

	var entry watchlist.Entry
	if watchlist.Contains(list, id) {
		entry = watchlist.Entry{ID: id}
	} else {
		// Adding: pull the real title so the row renders properly.
		detail, err := catalogClient.GetByID(context.Background(), id)
		if err != nil {
			if msg, ok := omdb.IsUpstream(err); ok {
				return fmt.Errorf("cannot add %s: %s", id, msg)
			}
			return fmt.Errorf("lookup failed: %w", err)
		}
		entry = watchlist.Entry{
			ID:     detail.ID,
			Title:  detail.Title,
			Year:   detail.Year,
			Poster: detail.Poster,
		}
	}

	updated := watchlist.Toggle(list, entry)

	if err := store.Save(updated); err != nil {
		// Non-fatal: the toggle took effect for this session.
		logger.Warn().Err(err).Msg("Failed to persist watchlist")
	}

	if len(updated) > len(list) {
		fmt.Printf("Added %s (%d entries)\n", entry.Title, len(updated))
	} else {
		fmt.Printf("Removed %s (%d entries)\n", id, len(updated))
	}

	return nil
}

func runWatchlistRefresh(cmd *cobra.Command, args []string) error {
	list := store.Load()
	if len(list) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}

	logger.Info().Int("entries", len(list)).Msg("Refreshing watchlist from catalog")

	refreshed, err := store.Refresh(context.Background(), catalogClient, list)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if err := store.Save(refreshed); err != nil {
		return fmt.Errorf("failed to persist refreshed watchlist: %w", err)
	}

	fmt.Printf("Refreshed %d entries.\n", len(refreshed))
	return nil
}
