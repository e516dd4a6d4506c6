package motor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/browserkit/response"
	"github.com/pb33f/harhar"
)

// EntryMetadata is the lightweight, indexed view of one HAR entry.
type EntryMetadata struct {
	FileOffset  int64
	Length      int64
	Method      string
	URL         string
	StatusCode  int
	StatusText  string
	MimeType    string
	Timestamp   time.Time
	Duration    float64
	BodySize    int64
	HeaderCount int
	ServerIP    string
	IsBase64    bool
}

type Index struct {
	FilePath     string
	FileSize     int64
	FileHash     string
	Version      string
	Creator      *harhar.Creator
	Browser      *harhar.Creator
	Pages        []harhar.Page
	Entries      []*EntryMetadata
	TotalEntries int
	UniqueURLs   int
	StatusCounts map[int]int
	TimeRange    TimeRange
	BuildTime    time.Duration
	stringShards [256]*stringTableShard
	shardInit    sync.Mutex
}

type stringTableShard struct {
	table map[string]string
	mu    sync.RWMutex
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Intern returns a canonical copy of s, so repeated methods, urls and mime types
// share one allocation. 256 shards keyed by xxhash keep lock contention low.
func (idx *Index) Intern(s string) string {
	if s == "" {
		return ""
	}

	shard := idx.shard(xxhash.Sum64String(s) % 256)

	shard.mu.RLock()
	if interned, ok := shard.table[s]; ok {
		shard.mu.RUnlock()
		return interned
	}
	shard.mu.RUnlock()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if interned, ok := shard.table[s]; ok {
		return interned
	}
	shard.table[s] = s
	return s
}

func (idx *Index) shard(i uint64) *stringTableShard {
	idx.shardInit.Lock()
	defer idx.shardInit.Unlock()

	if idx.stringShards[i] == nil {
		idx.stringShards[i] = &stringTableShard{table: make(map[string]string)}
	}
	return idx.stringShards[i]
}

// StreamResult carries one streamed response, or the error reading it.
type StreamResult struct {
	Index    int
	Response *response.Response
	Error    error
}

type StreamerStats struct {
	TotalReads      int64
	CacheHits       int64
	CacheMisses     int64
	BytesRead       int64
	EntriesParsed   int64
	ParseErrors     int64
	AverageReadTime time.Duration
}

type StreamerOptions struct {
	// WorkerCount is the number of concurrent readers used when streaming.
	WorkerCount int
	// CacheSize bounds the response cache, 0 disables caching.
	CacheSize int
	Logger    *slog.Logger
}

func DefaultStreamerOptions() StreamerOptions {
	return StreamerOptions{
		WorkerCount: 4,
		CacheSize:   0,
	}
}
