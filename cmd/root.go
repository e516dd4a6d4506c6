package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pb33f/browserkit/config"
	"github.com/pb33f/browserkit/motor"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	Logger     *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "browserkit",
		Short: "Replay recorded HTTP responses as deterministic debug strings",
		Long: `browserkit reads HAR files and turns every recorded response into an
immutable response value. Responses can be dumped as debug strings with
volatile headers removed, searched, and checked against golden snapshots.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(RenderBanner())
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./"+config.DefaultFile+" when present)")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

// setupLogger configures the global slog logger based on the verbose flag
func setupLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	}

	Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled", "pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger()
	}
	return Logger
}

// loadConfig reads --config, or the default file when it exists.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath, false)
	}
	return config.Load(config.DefaultFile, true)
}

// ValidateHARFile checks that the HAR file exists and is not a directory
func ValidateHARFile(harFile string) error {
	if harFile == "" {
		return fmt.Errorf("HAR file path is required")
	}

	info, err := os.Stat(harFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("HAR file does not exist: %s", harFile)
		}
		return fmt.Errorf("error accessing HAR file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", harFile)
	}

	return nil
}

// InitializeStreamer creates and initializes a HAR streamer
func InitializeStreamer(ctx context.Context, harFile string, cfg *config.Config, logger *slog.Logger) (motor.HARStreamer, error) {
	if err := ValidateHARFile(harFile); err != nil {
		return nil, err
	}

	opts := motor.DefaultStreamerOptions()
	opts.WorkerCount = cfg.Workers
	opts.CacheSize = cfg.CacheSize
	opts.Logger = logger

	streamer, err := motor.NewHARStreamer(harFile, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create HAR streamer: %w", err)
	}

	logger.Debug("building HAR file index...")
	if err := streamer.Initialize(ctx); err != nil {
		if closeErr := streamer.Close(); closeErr != nil {
			logger.Debug("error closing streamer after initialization failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize HAR streamer: %w", err)
	}

	index := streamer.GetIndex()
	logger.Debug("HAR file loaded",
		"entries", index.TotalEntries,
		"file_size", index.FileSize,
		"unique_urls", index.UniqueURLs,
		"build_time", index.BuildTime)

	if index.Creator != nil {
		logger.Debug("HAR creator", "name", index.Creator.Name, "version", index.Creator.Version)
	}

	return streamer, nil
}
