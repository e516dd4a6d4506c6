package motor

import (
	"context"
	"fmt"
	"sort"

	"github.com/pb33f/browserkit/response"
)

// SearchOptions configures search behavior
type SearchOptions struct {
	Mode       SearchMode // plaintext or regex
	SearchBody bool       // also match response content
}

// DefaultSearchOptions provides sensible defaults
var DefaultSearchOptions = SearchOptions{
	Mode:       PlainText,
	SearchBody: false,
}

// SearchResult is a single matching entry
type SearchResult struct {
	Index int    // entry index in har file
	Field string // which field matched: "url", "headers.content-type", "content"
	Error error  // non-fatal error reading this entry, search continues
}

// Searcher finds entries whose metadata or recorded response matches a pattern
type Searcher struct {
	streamer HARStreamer
}

func NewSearcher(streamer HARStreamer) *Searcher {
	return &Searcher{streamer: streamer}
}

// Search returns every matching entry ordered by index. Responses are read
// with the streamer's worker pool.
func (s *Searcher) Search(ctx context.Context, pattern string, opts SearchOptions) ([]SearchResult, error) {
	compiled, err := compilePattern(pattern, opts.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	index := s.streamer.GetIndex()
	if index == nil {
		return nil, ErrNotInitialized
	}

	var results []SearchResult
	var pending []int

	// metadata first, no i/o needed
	for i, meta := range index.Entries {
		if field := matchMetadata(meta, compiled); field != "" {
			results = append(results, SearchResult{Index: i, Field: field})
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		stream, err := s.streamer.StreamFiltered(ctx, pendingFilter(index, pending))
		if err != nil {
			return nil, err
		}
		for r := range stream {
			if r.Error != nil {
				results = append(results, SearchResult{Index: r.Index, Error: r.Error})
				continue
			}
			if field := matchResponse(r.Response, compiled, opts.SearchBody); field != "" {
				results = append(results, SearchResult{Index: r.Index, Field: field})
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, nil
}

func pendingFilter(index *Index, pending []int) func(*EntryMetadata) bool {
	set := make(map[*EntryMetadata]struct{}, len(pending))
	for _, i := range pending {
		set[index.Entries[i]] = struct{}{}
	}
	return func(meta *EntryMetadata) bool {
		_, ok := set[meta]
		return ok
	}
}

func matchMetadata(meta *EntryMetadata, pattern compiledPattern) string {
	fields := []struct {
		value string
		name  string
	}{
		{meta.URL, "url"},
		{meta.Method, "method"},
		{meta.StatusText, "status"},
		{meta.MimeType, "mimeType"},
		{meta.ServerIP, "serverIP"},
	}

	for _, field := range fields {
		if pattern.matches(field.value) {
			return field.name
		}
	}
	return ""
}

func matchResponse(resp *response.Response, pattern compiledPattern, searchBody bool) string {
	raw := resp.Headers()
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if pattern.matches(name) {
			return "headers." + name
		}
		for _, v := range raw[name] {
			if pattern.matches(v) {
				return "headers." + name
			}
		}
	}

	if searchBody && pattern.matches(resp.Content()) {
		return "content"
	}
	return ""
}
