package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelist/reelist/omdb"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <id|title>",
	Short: "Show the full record for one title",
	Long: `Fetch and print the full catalog record for a single title.

Arguments that look like an IMDb identifier (tt0468569) are looked up by ID;
anything else is looked up as an exact title. Use --title to treat a
tt-prefixed argument as a title anyway.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&byTitle, "title", false, "force a title lookup even for tt-prefixed arguments")
}

func runInfo(cmd *cobra.Command, args []string) error {
	arg := strings.Join(args, " ")
	ctx := context.Background()

	var (
		detail *omdb.Detail
		err    error
	)

	if looksLikeIMDbID(arg) && !byTitle {
		detail, err = catalogClient.GetByID(ctx, arg)
	} else {
		detail, err = catalogClient.GetByTitle(ctx, arg)
	}

	if err != nil {
		if msg, ok := omdb.IsUpstream(err); ok {
			fmt.Println(msg)
			return nil
		}
		return fmt.Errorf("lookup failed: %w", err)
	}

	printDetail(detail)
	return nil
}

// looksLikeIMDbID matches the tt-prefixed numeric identifiers OMDb uses.
func looksLikeIMDbID(s string) bool {
	if !strings.HasPrefix(s, "tt") || len(s) < 3 {
		return false
	}
	for _, r := range s[2:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func printDetail(d *omdb.Detail) {
	fmt.Printf("\n%s (%s)\n", d.Title, d.Year)
	fmt.Println(strings.Repeat("-", 60))

	if d.Rated != "" || d.Runtime != "" {
		fmt.Printf("%s · %s\n", d.Rated, d.Runtime)
	}
	if d.Genre != "" {
		fmt.Printf("Genre: %s\n", d.Genre)
	}
	if d.Director != "" {
		fmt.Printf("Director: %s\n", d.Director)
	}
	if d.Actors != "" {
		fmt.Printf("Cast: %s\n", d.Actors)
	}

	if d.Plot != "" {
		fmt.Printf("\n%s\n", d.Plot)
	}

	if len(d.Ratings) > 0 {
		fmt.Println("\nRatings:")
		for _, r := range d.Ratings {
			fmt.Printf("  • %s: %s\n", r.Source, r.Value)
		}
	}

	fmt.Printf("\nIMDb ID: %s\n", d.ID)
}
