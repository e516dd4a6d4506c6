package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pb33f/browserkit/motor"
	"github.com/pb33f/browserkit/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotUpdate bool
	snapshotDir    string
	snapshotIgnore []string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <har-file>",
	Short: "Check response debug strings against golden snapshots",
	Long: `Compare the debug string of every recorded response against a stored
snapshot file. Missing or stale snapshots fail the run with a unified diff,
unless --update is given, in which case they are written.`,
	Args: cobra.ExactArgs(1),
	Example: `  browserkit snapshot recording.har --update
  browserkit snapshot recording.har --dir testdata/snapshots`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVarP(&snapshotUpdate, "update", "u", false, "Write missing and stale snapshots")
	snapshotCmd.Flags().StringVar(&snapshotDir, "dir", "", "Snapshot directory (default: snapshot_dir from config)")
	snapshotCmd.Flags().StringSliceVar(&snapshotIgnore, "ignore", nil, "Extra headers to leave out of debug strings")
}

// ErrSnapshotsFailed is returned when at least one snapshot is missing or stale.
var ErrSnapshotsFailed = errors.New("snapshots failed")

type snapshotOptions struct {
	Dir    string
	Update bool
	Ignore []string
}

type snapshotSummary struct {
	Matched int
	Created int
	Updated int
	Failed  int
}

func runSnapshot(cmd *cobra.Command, args []string) error {
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

	opts := snapshotOptions{
		Dir:    cfg.SnapshotDir,
		Update: snapshotUpdate,
		Ignore: append(append([]string(nil), cfg.IgnoreHeaders...), snapshotIgnore...),
	}
	if snapshotDir != "" {
		opts.Dir = snapshotDir
	}

	_, err = checkSnapshots(cmd.Context(), cmd.OutOrStdout(), streamer, opts)
	return err
}

func checkSnapshots(ctx context.Context, w io.Writer, streamer motor.HARStreamer, opts snapshotOptions) (*snapshotSummary, error) {
	index := streamer.GetIndex()

	stream, err := streamer.StreamRange(ctx, 0, index.TotalEntries)
	if err != nil {
		return nil, err
	}
	results := motor.Collect(stream)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &snapshotSummary{}
	for _, r := range results {
		if r.Error != nil {
			return summary, fmt.Errorf("entry %d: %w", r.Index, r.Error)
		}
		meta := index.Entries[r.Index]
		name := snapshot.Name(r.Index, meta.Method, meta.URL)

		res, err := snapshot.Compare(opts.Dir, name, r.Response.DebugString(opts.Ignore...), opts.Update)
		switch {
		case err == nil && res.Created:
			summary.Created++
			fmt.Fprintf(w, "+ %s\n", name)
		case err == nil && res.Updated:
			summary.Updated++
			fmt.Fprintf(w, "~ %s\n", name)
		case err == nil:
			summary.Matched++
		case errors.Is(err, snapshot.ErrMismatch):
			summary.Failed++
			fmt.Fprintf(w, "✗ %s\n%s\n", name, res.Diff)
		default:
			summary.Failed++
			fmt.Fprintf(w, "✗ %s: %v\n", name, err)
		}
	}

	fmt.Fprintf(w, "%d matched, %d created, %d updated, %d failed\n",
		summary.Matched, summary.Created, summary.Updated, summary.Failed)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrSnapshotsFailed, summary.Failed, len(results))
	}
	return summary, nil
}
