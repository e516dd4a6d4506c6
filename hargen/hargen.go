package hargen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/browserkit/motor/model"
)

// GenerateOptions configures har generation
type GenerateOptions struct {
	EntryCount        int       // number of entries to generate
	Seed              int64     // random seed for reproducibility (0 = use time)
	DictionaryPath    string    // word list file, empty uses the built-in list
	BaseTime          time.Time // start time of the first entry (zero = 2024-01-01T00:00:00Z)
	VolatileHeaders   bool      // add Date and Cache-Control response headers
	MultiValueCookies bool      // add one or more Set-Cookie headers per response
	Base64Bodies      bool      // encode some response bodies as base64
}

// DefaultGenerateOptions provides sensible defaults
var DefaultGenerateOptions = GenerateOptions{
	EntryCount:        10,
	BaseTime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	VolatileHeaders:   true,
	MultiValueCookies: true,
}

// GenerateResult describes a generated har file
type GenerateResult struct {
	HARFilePath  string // path to generated har file
	TotalEntries int    // number of entries generated
}

// Generate writes a har file to a temp file
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	tmpFile, err := os.CreateTemp("", "hargen-*.har")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	result, err := GenerateToFile(path, opts)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return result, nil
}

// GenerateInMemory creates a har document without writing to disk
func GenerateInMemory(opts GenerateOptions) (*model.HAR, error) {
	if opts.BaseTime.IsZero() {
		opts.BaseTime = DefaultGenerateOptions.BaseTime
	}

	// local rng, the global source is never touched
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dict, err := LoadDictionary(opts.DictionaryPath, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	entryGen := NewEntryGenerator(dict, rng, opts)

	har := model.NewHAR("hargen", "1.0.0")
	for i := 0; i < opts.EntryCount; i++ {
		har.AddEntry(entryGen.GenerateEntry(i))
	}

	return har, nil
}

// GenerateToFile generates a har and writes it to a specific file path
func GenerateToFile(path string, opts GenerateOptions) (*GenerateResult, error) {
	har, err := GenerateInMemory(opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(har); err != nil {
		return nil, fmt.Errorf("failed to write har: %w", err)
	}

	return &GenerateResult{
		HARFilePath:  path,
		TotalEntries: len(har.Log.Entries),
	}, nil
}
