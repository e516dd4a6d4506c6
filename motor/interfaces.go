package motor

import (
	"context"
	"encoding/json"

	"github.com/pb33f/browserkit/response"
	"github.com/pb33f/harhar"
)

// HARStreamer gives random and streamed access to the responses recorded
// in a HAR file, without loading the whole file into memory
type HARStreamer interface {
	// Initialize builds the index and prepares the streamer for reading
	Initialize(ctx context.Context) error

	// GetEntry retrieves the full HAR entry at index
	GetEntry(ctx context.Context, index int) (*harhar.Entry, error)

	// GetResponse retrieves the recorded response at index
	GetResponse(ctx context.Context, index int) (*response.Response, error)

	// StreamRange streams responses within the index range [start, end)
	StreamRange(ctx context.Context, start, end int) (<-chan StreamResult, error)

	// StreamFiltered streams responses whose metadata matches filter
	StreamFiltered(ctx context.Context, filter func(*EntryMetadata) bool) (<-chan StreamResult, error)

	// GetMetadata returns the indexed metadata for an entry
	GetMetadata(index int) (*EntryMetadata, error)

	// GetIndex returns the complete index
	GetIndex() *Index

	// Close releases all resources
	Close() error

	// Stats returns current streamer statistics
	Stats() StreamerStats
}

// HARDecoder is the subset of json.Decoder used while indexing
type HARDecoder interface {
	Token() (json.Token, error)
	Decode(v any) error
	More() bool
	InputOffset() int64
}

// Cache stores converted responses by entry index
type Cache interface {
	Get(index int) (*response.Response, bool)
	Put(index int, resp *response.Response)
	Clear()
	Size() int
}
