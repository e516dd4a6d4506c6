package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pb33f/browserkit/config"
	"github.com/pb33f/browserkit/hargen"
	"github.com/pb33f/browserkit/motor"
	"github.com/pb33f/browserkit/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestHAR(t *testing.T, entries int) string {
	t.Helper()

	opts := hargen.DefaultGenerateOptions
	opts.EntryCount = entries
	opts.Seed = 7
	opts.Base64Bodies = true

	path := filepath.Join(t.TempDir(), "fixture.har")
	_, err := hargen.GenerateToFile(path, opts)
	require.NoError(t, err)
	return path
}

func openTestStreamer(t *testing.T, entries int) motor.HARStreamer {
	t.Helper()

	streamer, err := InitializeStreamer(t.Context(), writeTestHAR(t, entries), config.Default(), GetLogger())
	require.NoError(t, err)
	t.Cleanup(func() { streamer.Close() })
	return streamer
}

func headerLines(output string) []string {
	var lines []string
	for _, block := range strings.Split(output, "### ") {
		head, _, _ := strings.Cut(block, "\n\n")
		lines = append(lines, strings.Split(head, "\n")...)
	}
	return lines
}

func TestValidateHARFile(t *testing.T) {
	assert.Error(t, ValidateHARFile(""))
	assert.Error(t, ValidateHARFile(filepath.Join(t.TempDir(), "missing.har")))
	assert.Error(t, ValidateHARFile(t.TempDir()))
	assert.NoError(t, ValidateHARFile(writeTestHAR(t, 1)))
}

func TestDumpResponses(t *testing.T) {
	streamer := openTestStreamer(t, 5)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{}))

	output := out.String()
	for i := 0; i < 5; i++ {
		assert.Contains(t, output, fmt.Sprintf("### #%d ", i))
	}
	for _, line := range headerLines(output) {
		assert.False(t, strings.HasPrefix(line, "date:"), line)
		assert.False(t, strings.HasPrefix(line, "cache-control:"), line)
		assert.NotContains(t, line, "\r")
	}
	assert.Contains(t, output, "content-type:")
}

func TestDumpResponses_Ignore(t *testing.T) {
	streamer := openTestStreamer(t, 3)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{Ignore: []string{"X-Request-Id"}}))

	for _, line := range headerLines(out.String()) {
		assert.False(t, strings.HasPrefix(line, "x-request-id:"), line)
	}
}

func TestDumpResponses_Indices(t *testing.T) {
	streamer := openTestStreamer(t, 4)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{Indices: []int{2}}))
	assert.Contains(t, out.String(), "### #2 ")
	assert.NotContains(t, out.String(), "### #0 ")
	assert.Equal(t, 1, strings.Count(out.String(), "### #"))

	err := dumpResponses(t.Context(), &out, streamer, dumpOptions{Indices: []int{4}})
	assert.Error(t, err)
}

func TestDumpResponses_Status(t *testing.T) {
	streamer := openTestStreamer(t, 10)
	index := streamer.GetIndex()
	want := index.Entries[0].StatusCode

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{Status: want}))
	assert.Equal(t, index.StatusCounts[want], strings.Count(out.String(), "### #"))
}

func TestDumpResponses_Raw(t *testing.T) {
	streamer := openTestStreamer(t, 2)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{Raw: true}))
	assert.Contains(t, out.String(), "Content-Type: ")
}

func TestDumpResponses_JSON(t *testing.T) {
	streamer := openTestStreamer(t, 3)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{JSON: true}))

	var decoded []struct {
		Index    int    `json:"index"`
		Method   string `json:"method"`
		URL      string `json:"url"`
		Response struct {
			Status  int                 `json:"status"`
			Headers map[string][]string `json:"headers"`
			Content string              `json:"content"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	index := streamer.GetIndex()
	for i, e := range decoded {
		assert.Equal(t, i, e.Index)
		assert.Equal(t, index.Entries[i].URL, e.URL)
		assert.Equal(t, index.Entries[i].StatusCode, e.Response.Status)
		assert.NotEmpty(t, e.Response.Headers["Content-Type"])
	}
}

func TestDumpResponses_JSONEmpty(t *testing.T) {
	streamer := openTestStreamer(t, 2)

	var out bytes.Buffer
	require.NoError(t, dumpResponses(t.Context(), &out, streamer, dumpOptions{JSON: true, Status: 999}))
	assert.Equal(t, "[]\n", out.String())
}

func TestCheckSnapshots(t *testing.T) {
	streamer := openTestStreamer(t, 4)
	dir := filepath.Join(t.TempDir(), "snaps")
	opts := snapshotOptions{Dir: dir}

	var out bytes.Buffer
	_, err := checkSnapshots(t.Context(), &out, streamer, opts)
	assert.ErrorIs(t, err, ErrSnapshotsFailed)

	opts.Update = true
	summary, err := checkSnapshots(t.Context(), &out, streamer, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Created)

	opts.Update = false
	summary, err = checkSnapshots(t.Context(), &out, streamer, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Matched)
	assert.Zero(t, summary.Failed)
}

func TestCheckSnapshots_Mismatch(t *testing.T) {
	streamer := openTestStreamer(t, 2)
	dir := t.TempDir()

	_, err := checkSnapshots(t.Context(), &bytes.Buffer{}, streamer, snapshotOptions{Dir: dir, Update: true})
	require.NoError(t, err)

	meta := streamer.GetIndex().Entries[1]
	name := snapshot.Name(1, meta.Method, meta.URL)
	require.NoError(t, os.WriteFile(snapshot.Path(dir, name), []byte("stale\n"), 0644))

	var out bytes.Buffer
	summary, err := checkSnapshots(t.Context(), &out, streamer, snapshotOptions{Dir: dir})
	assert.ErrorIs(t, err, ErrSnapshotsFailed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Matched)
	assert.Contains(t, out.String(), "-stale")

	summary, err = checkSnapshots(t.Context(), &out, streamer, snapshotOptions{Dir: dir, Update: true})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
}

func TestCheckSnapshots_IgnoreChangesOutput(t *testing.T) {
	streamer := openTestStreamer(t, 1)
	dir := t.TempDir()

	_, err := checkSnapshots(t.Context(), &bytes.Buffer{}, streamer, snapshotOptions{Dir: dir, Update: true})
	require.NoError(t, err)

	_, err = checkSnapshots(t.Context(), &bytes.Buffer{}, streamer, snapshotOptions{Dir: dir, Ignore: []string{"x-request-id"}})
	assert.ErrorIs(t, err, ErrSnapshotsFailed)
}

func TestSearchEntries(t *testing.T) {
	streamer := openTestStreamer(t, 5)
	url := streamer.GetIndex().Entries[3].URL

	var out bytes.Buffer
	require.NoError(t, searchEntries(t.Context(), &out, streamer, url, motor.DefaultSearchOptions, false))
	assert.Contains(t, out.String(), "### #3 ")
	assert.Contains(t, out.String(), "of 5 entries matched")

	out.Reset()
	opts := motor.DefaultSearchOptions
	opts.Mode = motor.Regex
	require.NoError(t, searchEntries(t.Context(), &out, streamer, "^https?://", opts, false))
	assert.Contains(t, out.String(), "5 of 5 entries matched")

	err := searchEntries(t.Context(), &out, streamer, "([", opts, false)
	assert.Error(t, err)
}

func TestGenerateHAR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.har")
	opts := hargen.DefaultGenerateOptions
	opts.EntryCount = 3
	opts.Seed = 1

	var out bytes.Buffer
	require.NoError(t, generateHAR(&out, path, opts))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "Total entries: 3")

	opts.EntryCount = -1
	assert.Error(t, generateHAR(&out, path, opts))
}

func TestEntryTitle(t *testing.T) {
	assert.Equal(t, "### #3 GET https://example.com/a -> 404",
		entryTitle(3, "GET", "https://example.com/a", 404, false))
	assert.Contains(t, entryTitle(3, "GET", "https://example.com/a", 404, true), "https://example.com/a")
}
