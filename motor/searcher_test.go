package motor

import (
	"strings"
	"testing"

	"github.com/pb33f/browserkit/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_URL(t *testing.T) {
	path, har := generateTestHAR(t, 20, 42)
	streamer := newInitializedStreamer(t, path, DefaultStreamerOptions())

	results, err := NewSearcher(streamer).Search(t.Context(), "api.example.com", DefaultSearchOptions)
	require.NoError(t, err)

	expected := 0
	for _, e := range har.Log.Entries {
		if strings.Contains(e.Request.URL, "api.example.com") {
			expected++
		}
	}
	// redirects may also match through their Location header
	urlMatches := 0
	for _, r := range results {
		if r.Field == "url" {
			urlMatches++
		}
	}
	assert.Equal(t, expected, urlMatches)
}

func TestSearcher_Header(t *testing.T) {
	path, _ := generateTestHAR(t, 10, 42)
	streamer := newInitializedStreamer(t, path, DefaultStreamerOptions())

	// every generated response carries "Server: hargen"
	results, err := NewSearcher(streamer).Search(t.Context(), "hargen", DefaultSearchOptions)
	require.NoError(t, err)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "headers.Server", r.Field)
	}
}

func TestSearcher_BodyRequiresFlag(t *testing.T) {
	path, _ := generateTestHAR(t, 10, 42)
	streamer := newInitializedStreamer(t, path, DefaultStreamerOptions())
	searcher := NewSearcher(streamer)

	results, err := searcher.Search(t.Context(), "<h1>", DefaultSearchOptions)
	require.NoError(t, err)
	assert.Empty(t, results)

	opts := DefaultSearchOptions
	opts.SearchBody = true
	results, err = searcher.Search(t.Context(), "<h1>", opts)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "content", r.Field)
	}
}

func TestSearcher_Regex(t *testing.T) {
	path, _ := generateTestHAR(t, 10, 42)
	streamer := newInitializedStreamer(t, path, DefaultStreamerOptions())
	searcher := NewSearcher(streamer)

	results, err := searcher.Search(t.Context(), `^https://[a-z.]+/`, SearchOptions{Mode: Regex})
	require.NoError(t, err)
	assert.Len(t, results, 10)

	_, err = searcher.Search(t.Context(), `(`, SearchOptions{Mode: Regex})
	assert.Error(t, err)
}

func TestSearcher_NotInitialized(t *testing.T) {
	streamer, err := NewHARStreamer("x.har", DefaultStreamerOptions())
	require.NoError(t, err)

	_, err = NewSearcher(streamer).Search(t.Context(), "x", DefaultSearchOptions)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestMatchResponse(t *testing.T) {
	resp := response.New(
		response.WithContent("needle in body"),
		response.WithHeader("X-Trace", "abc"),
	)
	pattern, err := compilePattern("abc", PlainText)
	require.NoError(t, err)
	assert.Equal(t, "headers.X-Trace", matchResponse(resp, pattern, false))

	pattern, err = compilePattern("needle", PlainText)
	require.NoError(t, err)
	assert.Empty(t, matchResponse(resp, pattern, false))
	assert.Equal(t, "content", matchResponse(resp, pattern, true))
}

func TestCompilePattern(t *testing.T) {
	p, err := compilePattern("a.c", PlainText)
	require.NoError(t, err)
	assert.True(t, p.matches("xa.cx"))
	assert.False(t, p.matches("abc"))

	p, err = compilePattern("a.c", Regex)
	require.NoError(t, err)
	assert.True(t, p.matches("abc"))
}
