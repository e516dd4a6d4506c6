package motor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/pb33f/browserkit/response"
	"github.com/pb33f/harhar"
	"golang.org/x/sync/errgroup"
)

type DefaultHARStreamer struct {
	filePath string
	options  StreamerOptions
	logger   *slog.Logger
	index    *Index
	reader   *EntryReader
	cache    Cache
	stats    atomicStats
}

type atomicStats struct {
	totalReads      atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	bytesRead       atomic.Int64
	entriesParsed   atomic.Int64
	parseErrors     atomic.Int64
	totalReadTimeNs atomic.Int64
}

func NewHARStreamer(filePath string, options StreamerOptions) (*DefaultHARStreamer, error) {
	if filePath == "" {
		return nil, fmt.Errorf("har file path is required")
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if options.WorkerCount < 1 {
		options.WorkerCount = 1
	}

	var cache Cache = NewNoOpCache()
	if options.CacheSize > 0 {
		cache = NewLRUCache(options.CacheSize)
	}

	return &DefaultHARStreamer{
		filePath: filePath,
		options:  options,
		logger:   logger,
		cache:    cache,
	}, nil
}

func (s *DefaultHARStreamer) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Open(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	index, err := NewIndexBuilder(s.filePath).Build(file)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	reader, err := NewEntryReader(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}

	s.index = index
	s.reader = reader

	s.logger.Debug("har index built",
		"file", s.filePath,
		"entries", index.TotalEntries,
		"unique_urls", index.UniqueURLs,
		"build_time", index.BuildTime)

	return nil
}

func (s *DefaultHARStreamer) GetEntry(ctx context.Context, index int) (*harhar.Entry, error) {
	metadata, err := s.GetMetadata(index)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	entry, err := s.reader.Read(ctx, metadata)
	if err != nil {
		s.stats.parseErrors.Add(1)
		return nil, fmt.Errorf("failed to read entry %d: %w", index, err)
	}

	s.stats.totalReads.Add(1)
	s.stats.entriesParsed.Add(1)
	s.stats.bytesRead.Add(metadata.Length)
	s.stats.totalReadTimeNs.Add(int64(time.Since(start)))

	return entry, nil
}

func (s *DefaultHARStreamer) GetResponse(ctx context.Context, index int) (*response.Response, error) {
	if resp, ok := s.cache.Get(index); ok {
		s.stats.cacheHits.Add(1)
		return resp, nil
	}
	s.stats.cacheMisses.Add(1)

	entry, err := s.GetEntry(ctx, index)
	if err != nil {
		return nil, err
	}

	resp, err := response.FromHAR(entry.Response)
	if err != nil {
		s.stats.parseErrors.Add(1)
		return nil, fmt.Errorf("failed to convert entry %d: %w", index, err)
	}

	s.cache.Put(index, resp)
	return resp, nil
}

func (s *DefaultHARStreamer) StreamRange(ctx context.Context, start, end int) (<-chan StreamResult, error) {
	if s.index == nil {
		return nil, ErrNotInitialized
	}
	if start < 0 || start > s.index.TotalEntries {
		return nil, fmt.Errorf("start index %d out of range", start)
	}
	if end < start || end > s.index.TotalEntries {
		return nil, fmt.Errorf("end index %d out of range", end)
	}

	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return s.streamIndices(ctx, indices), nil
}

func (s *DefaultHARStreamer) StreamFiltered(ctx context.Context, filter func(*EntryMetadata) bool) (<-chan StreamResult, error) {
	if s.index == nil {
		return nil, ErrNotInitialized
	}

	var indices []int
	for i, metadata := range s.index.Entries {
		if filter == nil || filter(metadata) {
			indices = append(indices, i)
		}
	}
	return s.streamIndices(ctx, indices), nil
}

// streamIndices fans the indices out to WorkerCount readers. Results arrive in
// completion order; the channel closes once every index is read or ctx is done.
func (s *DefaultHARStreamer) streamIndices(ctx context.Context, indices []int) <-chan StreamResult {
	results := make(chan StreamResult, s.options.WorkerCount)

	go func() {
		defer close(results)

		g, gctx := errgroup.WithContext(ctx)
		work := make(chan int, s.options.WorkerCount*2)

		g.Go(func() error {
			defer close(work)
			for _, idx := range indices {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case work <- idx:
				}
			}
			return nil
		})

		for i := 0; i < s.options.WorkerCount; i++ {
			g.Go(func() error {
				for idx := range work {
					resp, err := s.GetResponse(gctx, idx)
					select {
					case <-gctx.Done():
						return gctx.Err()
					case results <- StreamResult{Index: idx, Response: resp, Error: err}:
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			s.logger.Debug("stream stopped early", "error", err)
		}
	}()

	return results
}

func (s *DefaultHARStreamer) GetMetadata(index int) (*EntryMetadata, error) {
	if s.index == nil {
		return nil, ErrNotInitialized
	}
	if index < 0 || index >= s.index.TotalEntries {
		return nil, fmt.Errorf("index %d out of range [0, %d)", index, s.index.TotalEntries)
	}
	return s.index.Entries[index], nil
}

func (s *DefaultHARStreamer) GetIndex() *Index {
	return s.index
}

func (s *DefaultHARStreamer) Close() error {
	s.cache.Clear()
	if s.reader != nil {
		return s.reader.Close()
	}
	return nil
}

func (s *DefaultHARStreamer) Stats() StreamerStats {
	totalReads := s.stats.totalReads.Load()

	var avgTime time.Duration
	if totalReads > 0 {
		avgTime = time.Duration(s.stats.totalReadTimeNs.Load() / totalReads)
	}

	return StreamerStats{
		TotalReads:      totalReads,
		CacheHits:       s.stats.cacheHits.Load(),
		CacheMisses:     s.stats.cacheMisses.Load(),
		BytesRead:       s.stats.bytesRead.Load(),
		EntriesParsed:   s.stats.entriesParsed.Load(),
		ParseErrors:     s.stats.parseErrors.Load(),
		AverageReadTime: avgTime,
	}
}

// Collect drains a stream and returns the results ordered by entry index.
func Collect(results <-chan StreamResult) []StreamResult {
	var out []StreamResult
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}
