package motor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, path string) *Index {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	index, err := NewIndexBuilder(path).Build(file)
	require.NoError(t, err)
	return index
}

func TestEntryReader_ReadEveryEntry(t *testing.T) {
	path, har := generateTestHAR(t, 15, 3)
	index := buildIndex(t, path)

	reader, err := NewEntryReader(path)
	require.NoError(t, err)
	defer reader.Close()

	for i, meta := range index.Entries {
		entry, err := reader.Read(t.Context(), meta)
		require.NoError(t, err, "entry %d", i)
		assert.Equal(t, har.Log.Entries[i].Request.URL, entry.Request.URL)
		assert.Equal(t, har.Log.Entries[i].Response.Body.Content, entry.Response.Body.Content)
	}
}

func TestEntryReader_Concurrent(t *testing.T) {
	path, _ := generateTestHAR(t, 10, 3)
	index := buildIndex(t, path)

	reader, err := NewEntryReader(path)
	require.NoError(t, err)
	defer reader.Close()

	errs := make(chan error, len(index.Entries)*4)
	for g := 0; g < 4; g++ {
		go func() {
			for _, meta := range index.Entries {
				_, err := reader.Read(context.Background(), meta)
				errs <- err
			}
		}()
	}
	for i := 0; i < len(index.Entries)*4; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestEntryReader_Limits(t *testing.T) {
	path, _ := generateTestHAR(t, 1, 3)

	reader, err := NewEntryReader(path)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Read(t.Context(), &EntryMetadata{FileOffset: 0, Length: MaxEntrySize + 1})
	assert.ErrorIs(t, err, ErrEntryTooLarge)

	_, err = reader.Read(t.Context(), &EntryMetadata{FileOffset: 0, Length: 0})
	assert.Error(t, err)

	// the document start is not an entry
	_, err = reader.Read(t.Context(), &EntryMetadata{FileOffset: 0, Length: 8})
	assert.Error(t, err)
}

func TestEntryReader_Cancelled(t *testing.T) {
	path, _ := generateTestHAR(t, 1, 3)
	index := buildIndex(t, path)

	reader, err := NewEntryReader(path)
	require.NoError(t, err)
	defer reader.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = reader.Read(ctx, index.Entries[0])
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEntryReader_MissingFile(t *testing.T) {
	_, err := NewEntryReader(filepath.Join(t.TempDir(), "missing.har"))
	assert.Error(t, err)
}
