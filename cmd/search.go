package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pb33f/browserkit/motor"
	"github.com/spf13/cobra"
)

var (
	searchRegex bool
	searchBody  bool
	searchColor bool
)

var searchCmd = &cobra.Command{
	Use:   "search <har-file> <pattern>",
	Short: "Find entries whose URL, headers or body match a pattern",
	Args:  cobra.ExactArgs(2),
	Example: `  browserkit search recording.har /api/users
  browserkit search recording.har 'set-cookie'
  browserkit search recording.har 'session=[a-z]+' --regex --body`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&searchRegex, "regex", "r", false, "Treat the pattern as a regular expression")
	searchCmd.Flags().BoolVarP(&searchBody, "body", "b", false, "Also search response content")
	searchCmd.Flags().BoolVar(&searchColor, "color", false, "Colorize entry titles")
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	streamer, err := InitializeStreamer(cmd.Context(), args[0], cfg, logger)
	if err != nil {
		return err
	}
	defer streamer.Close()

	opts := motor.DefaultSearchOptions
	opts.SearchBody = searchBody
	if searchRegex {
		opts.Mode = motor.Regex
	}

	return searchEntries(cmd.Context(), cmd.OutOrStdout(), streamer, args[1], opts, searchColor)
}

func searchEntries(ctx context.Context, w io.Writer, streamer motor.HARStreamer, pattern string, opts motor.SearchOptions, color bool) error {
	results, err := motor.NewSearcher(streamer).Search(ctx, pattern, opts)
	if err != nil {
		return err
	}

	index := streamer.GetIndex()
	matches := 0
	for _, r := range results {
		if r.Error != nil {
			GetLogger().Warn("skipped unreadable entry", "index", r.Index, "error", r.Error)
			continue
		}
		meta := index.Entries[r.Index]
		fmt.Fprintf(w, "%s  [%s]\n", entryTitle(r.Index, meta.Method, meta.URL, meta.StatusCode, color), r.Field)
		matches++
	}

	fmt.Fprintf(w, "%d of %d entries matched\n", matches, index.TotalEntries)
	return nil
}
