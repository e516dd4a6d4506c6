package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pb33f/browserkit/motor"
	"github.com/pb33f/browserkit/response"
	"github.com/spf13/cobra"
)

var (
	dumpIndices []int
	dumpStatus  int
	dumpJSON    bool
	dumpRaw     bool
	dumpColor   bool
	dumpIgnore  []string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <har-file>",
	Short: "Print recorded responses as debug strings",
	Long: `Print every recorded response in a HAR file as a debug string: lowercased
headers without carriage returns, a blank line, then the body. Date and
Cache-Control headers are always left out; --ignore drops more.`,
	Args: cobra.ExactArgs(1),
	Example: `  browserkit dump recording.har
  browserkit dump recording.har --index 0,3 --ignore x-request-id
  browserkit dump recording.har --status 404 --json`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().IntSliceVarP(&dumpIndices, "index", "i", nil, "Only dump these entry indices")
	dumpCmd.Flags().IntVarP(&dumpStatus, "status", "s", 0, "Only dump responses with this status code")
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print responses as JSON")
	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "Print raw headers as recorded instead of the debug string")
	dumpCmd.Flags().BoolVar(&dumpColor, "color", false, "Colorize entry titles")
	dumpCmd.Flags().StringSliceVar(&dumpIgnore, "ignore", nil, "Extra headers to leave out of debug strings")
}

type dumpOptions struct {
	Indices []int
	Status  int
	JSON    bool
	Raw     bool
	Color   bool
	Ignore  []string
}

// filter returns the metadata predicate for the selected indices and status.
func (o dumpOptions) filter(index *motor.Index) func(*motor.EntryMetadata) bool {
	var wanted map[*motor.EntryMetadata]struct{}
	if len(o.Indices) > 0 {
		wanted = make(map[*motor.EntryMetadata]struct{}, len(o.Indices))
		for _, i := range o.Indices {
			if i >= 0 && i < len(index.Entries) {
				wanted[index.Entries[i]] = struct{}{}
			}
		}
	}

	return func(meta *motor.EntryMetadata) bool {
		if wanted != nil {
			if _, ok := wanted[meta]; !ok {
				return false
			}
		}
		return o.Status == 0 || meta.StatusCode == o.Status
	}
}

func runDump(cmd *cobra.Command, args []string) error {
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

	opts := dumpOptions{
		Indices: dumpIndices,
		Status:  dumpStatus,
		JSON:    dumpJSON,
		Raw:     dumpRaw,
		Color:   dumpColor,
		Ignore:  append(append([]string(nil), cfg.IgnoreHeaders...), dumpIgnore...),
	}

	return dumpResponses(cmd.Context(), cmd.OutOrStdout(), streamer, opts)
}

type jsonEntry struct {
	Index    int                `json:"index"`
	Method   string             `json:"method"`
	URL      string             `json:"url"`
	Response *response.Response `json:"response"`
}

func dumpResponses(ctx context.Context, w io.Writer, streamer motor.HARStreamer, opts dumpOptions) error {
	index := streamer.GetIndex()

	for _, i := range opts.Indices {
		if i < 0 || i >= index.TotalEntries {
			return fmt.Errorf("index %d out of range [0, %d)", i, index.TotalEntries)
		}
	}

	stream, err := streamer.StreamFiltered(ctx, opts.filter(index))
	if err != nil {
		return err
	}
	results := motor.Collect(stream)
	if err := ctx.Err(); err != nil {
		return err
	}

	var entries []jsonEntry
	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("entry %d: %w", r.Index, r.Error)
		}
		meta := index.Entries[r.Index]

		if opts.JSON {
			entries = append(entries, jsonEntry{
				Index:    r.Index,
				Method:   meta.Method,
				URL:      meta.URL,
				Response: r.Response,
			})
			continue
		}

		fmt.Fprintln(w, entryTitle(r.Index, meta.Method, meta.URL, r.Response.Status(), opts.Color))
		if opts.Raw {
			fmt.Fprint(w, r.Response.RawHeaderString())
			fmt.Fprintln(w)
			fmt.Fprintln(w, r.Response.Content())
			continue
		}
		fmt.Fprintln(w, r.Response.DebugString(opts.Ignore...))
	}

	if opts.JSON {
		if entries == nil {
			entries = []jsonEntry{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	return nil
}
