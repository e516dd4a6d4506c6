package cmd

import (
	"fmt"
	"io"

	"github.com/pb33f/browserkit/hargen"
	"github.com/spf13/cobra"
)

var (
	genEntryCount int
	genOutputFile string
	genSeed       int64
	genDictPath   string
	genVolatile   bool
	genCookies    bool
	genBase64     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate HAR files with synthetic responses",
	Long: `Generate HAR (HTTP Archive) files for testing. Responses carry volatile
Date and Cache-Control headers, repeated Set-Cookie headers and optionally
base64 encoded bodies, so every debug string edge case shows up.

Examples:
  browserkit generate -n 100 -o test.har
  browserkit generate -n 20 --seed 42 --base64
  browserkit generate --volatile=false --cookies=false`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genEntryCount, "entries", "n", 10, "Number of HAR entries to generate")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file path (default: temp hargen-*.har)")
	generateCmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	generateCmd.Flags().StringVarP(&genDictPath, "dict", "d", "", "Dictionary file path (default: built-in word list)")
	generateCmd.Flags().BoolVar(&genVolatile, "volatile", true, "Add Date and Cache-Control response headers")
	generateCmd.Flags().BoolVar(&genCookies, "cookies", true, "Add repeated Set-Cookie response headers")
	generateCmd.Flags().BoolVar(&genBase64, "base64", false, "Encode some response bodies as base64")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := hargen.DefaultGenerateOptions
	opts.EntryCount = genEntryCount
	opts.Seed = genSeed
	opts.DictionaryPath = genDictPath
	opts.VolatileHeaders = genVolatile
	opts.MultiValueCookies = genCookies
	opts.Base64Bodies = genBase64

	return generateHAR(cmd.OutOrStdout(), genOutputFile, opts)
}

func generateHAR(w io.Writer, output string, opts hargen.GenerateOptions) error {
	if opts.EntryCount < 0 {
		return fmt.Errorf("entries must not be negative, got %d", opts.EntryCount)
	}

	fmt.Fprintf(w, "Generating HAR file with %d entries...\n", opts.EntryCount)

	var result *hargen.GenerateResult
	var err error
	if output != "" {
		result, err = hargen.GenerateToFile(output, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	GetLogger().Debug("generated HAR", "path", result.HARFilePath, "seed", opts.Seed)

	fmt.Fprintf(w, "\n✓ Generated HAR file: %s\n", result.HARFilePath)
	fmt.Fprintf(w, "  Total entries: %d\n", result.TotalEntries)
	return nil
}
