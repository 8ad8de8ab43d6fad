package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/reelist/reelist/explorer"
	"github.com/reelist/reelist/omdb"
	"github.com/reelist/reelist/watchlist"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively explore the catalog",
	Long: `Start an interactive session: search, page through results, open details
and toggle watchlist membership without leaving the prompt.

Commands:
  s <term>    search (empty term clears results)
  n / p       next / previous page
  g <page>    go to page
  o <num>     open details for result <num> on the current page
  x           close the detail view
  w <num>     toggle watchlist membership for result <num>
  l           show the watchlist
  q           quit`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// browseSession wires the two controllers and the watchlist to a terminal.
// The watchlist slice is shared between the REPL loop and the controllers'
// fetch goroutines (via the OnChange callbacks), so access goes through mu.
type browseSession struct {
	search *explorer.SearchController
	detail *explorer.DetailController

	mu   sync.Mutex
	list []watchlist.Entry
}

// watchlist returns a copy of the session's current watchlist.
func (s *browseSession) watchlist() []watchlist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]watchlist.Entry, len(s.list))
	copy(list, s.list)
	return list
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("browse needs an interactive terminal; use 'reelist search' for scripted access")
	}

	session := &browseSession{
		search: explorer.NewSearchController(catalogClient, logger),
		detail: explorer.NewDetailController(catalogClient, logger),
		list:   store.Load(),
	}

	// Results and details render as their fetches land; the stale ones never
	// fire these callbacks.
	session.search.OnChange(func(snap explorer.SearchSnapshot) {
		renderSearch(snap, session.watchlist())
	})
	session.detail.OnChange(renderDetail)

	fmt.Println("reelist interactive session. Type a command, or 'q' to quit.")

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("reelist> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "q", "quit", "exit":
			return nil
		case "s", "search":
			session.search.Submit(ctx, rest)
		case "n", "next":
			session.search.NextPage(ctx)
		case "p", "prev":
			session.search.PrevPage(ctx)
		case "g", "goto":
			page, err := strconv.Atoi(rest)
			if err != nil {
				fmt.Println("usage: g <page>")
				continue
			}
			session.search.SetPage(ctx, page)
		case "o", "open":
			if item, ok := session.itemAt(rest); ok {
				session.detail.Select(ctx, item.ID)
			}
		case "x", "close":
			session.detail.Dismiss()
		case "w", "watch":
			if item, ok := session.itemAt(rest); ok {
				session.toggle(watchlist.Entry{
					ID:     item.ID,
					Title:  item.Title,
					Year:   item.Year,
					Poster: item.Poster,
				})
			}
		case "l", "watchlist":
			renderWatchlist(session.watchlist())
		default:
			fmt.Printf("unknown command %q\n", verb)
		}
	}
}

// itemAt resolves a 1-based result number against the current page.
func (s *browseSession) itemAt(arg string) (omdb.SearchItem, bool) {
	num, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("expected a result number")
		return omdb.SearchItem{}, false
	}

	snap := s.search.Snapshot()
	if num < 1 || num > len(snap.Items) {
		fmt.Printf("no result #%d on this page\n", num)
		return omdb.SearchItem{}, false
	}

	return snap.Items[num-1], true
}

func (s *browseSession) toggle(entry watchlist.Entry) {
	s.mu.Lock()
	s.list = watchlist.Toggle(s.list, entry)
	list := s.list
	s.mu.Unlock()

	if err := store.Save(list); err != nil {
		// In-memory state stays authoritative for the session.
		logger.Warn().Err(err).Msg("Failed to persist watchlist")
	}

	if watchlist.Contains(list, entry.ID) {
		fmt.Printf("Added %s to watchlist\n", entry.Title)
	} else {
		fmt.Printf("Removed %s from watchlist\n", entry.Title)
	}
}

func renderSearch(snap explorer.SearchSnapshot, list []watchlist.Entry) {
	switch snap.Phase {
	case explorer.SearchIdle:
		fmt.Println("\n(no active search)")
	case explorer.SearchLoading:
		fmt.Printf("\nSearching %q (page %d)...\n", snap.Term, snap.Page)
	case explorer.SearchFailed:
		fmt.Printf("\n%s\n", snap.ErrMessage)
	case explorer.SearchLoaded:
		fmt.Println()
		printSearchItems(snap.Items, list)
		if snap.HasPager() {
			fmt.Printf("\nPage %d/%d (%d results)\n", snap.Page, snap.PageCount(), snap.TotalCount)
		}
	}
	fmt.Print("reelist> ")
}

func renderDetail(snap explorer.DetailSnapshot) {
	switch snap.Phase {
	case explorer.DetailNone:
		return
	case explorer.DetailLoading:
		fmt.Printf("\nLoading %s...\n", snap.ID)
	case explorer.DetailFailed:
		fmt.Printf("\n%s\n", snap.ErrMessage)
	case explorer.DetailReady:
		printDetail(snap.Record)
	}
	fmt.Print("reelist> ")
}

func renderWatchlist(list []watchlist.Entry) {
	if len(list) == 0 {
		fmt.Println("Watchlist is empty.")
		return
	}
	fmt.Printf("\nWatchlist (%d):\n", len(list))
	for i, entry := range list {
		fmt.Printf("%2d. %s (%s)  [%s]\n", i+1, entry.Title, entry.Year, entry.ID)
	}
}
