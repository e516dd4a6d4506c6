package motor

import (
	"path/filepath"
	"testing"

	"github.com/pb33f/browserkit/hargen"
	"github.com/pb33f/browserkit/motor/model"
	"github.com/stretchr/testify/require"
)

// generateTestHAR writes a seeded HAR file into a temp dir and returns its path
// together with the in-memory document it was written from.
func generateTestHAR(t testing.TB, entries int, seed int64) (string, *model.HAR) {
	t.Helper()

	opts := hargen.DefaultGenerateOptions
	opts.EntryCount = entries
	opts.Seed = seed
	opts.Base64Bodies = true

	har, err := hargen.GenerateInMemory(opts)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.har")
	_, err = hargen.GenerateToFile(path, opts)
	require.NoError(t, err)

	return path, har
}

func newInitializedStreamer(t testing.TB, path string, opts StreamerOptions) *DefaultHARStreamer {
	t.Helper()

	streamer, err := NewHARStreamer(path, opts)
	require.NoError(t, err)
	require.NoError(t, streamer.Initialize(t.Context()))
	t.Cleanup(func() { streamer.Close() })
	return streamer
}
