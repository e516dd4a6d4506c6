package motor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pb33f/harhar"
)

// MaxEntrySize is the largest single HAR entry that will be read. It keeps a
// corrupted or malicious length from allocating unbounded memory.
const MaxEntrySize = 100 * 1024 * 1024

var (
	// ErrEntryTooLarge is returned when an entry exceeds MaxEntrySize.
	ErrEntryTooLarge = errors.New("har entry too large")

	// ErrNotInitialized is returned when a streamer is used before Initialize.
	ErrNotInitialized = errors.New("streamer not initialized")
)

// EntryReader reads single entries by offset. ReadAt on *os.File is safe for
// concurrent use, so one handle serves every worker; buffers are pooled.
type EntryReader struct {
	file    *os.File
	buffers *sync.Pool
}

func NewEntryReader(filePath string) (*EntryReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open har file: %w", err)
	}

	return &EntryReader{
		file: file,
		buffers: &sync.Pool{
			New: func() any {
				buf := make([]byte, 64*1024)
				return &buf
			},
		},
	}, nil
}

// Read decodes the entry described by meta.
func (r *EntryReader) Read(ctx context.Context, meta *EntryMetadata) (*harhar.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if meta.Length > MaxEntrySize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrEntryTooLarge, meta.Length, MaxEntrySize)
	}
	if meta.Length <= 0 {
		return nil, fmt.Errorf("invalid entry length %d", meta.Length)
	}

	bufPtr := r.buffers.Get().(*[]byte)
	defer r.buffers.Put(bufPtr)

	if int64(cap(*bufPtr)) < meta.Length {
		*bufPtr = make([]byte, meta.Length)
	}
	buf := (*bufPtr)[:meta.Length]

	n, err := r.file.ReadAt(buf, meta.FileOffset)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == meta.Length) {
		return nil, fmt.Errorf("read failed at offset %d: %w", meta.FileOffset, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry harhar.Entry
	if err := json.Unmarshal(trimEntry(buf[:n]), &entry); err != nil {
		return nil, fmt.Errorf("decode failed at offset %d: %w", meta.FileOffset, err)
	}
	return &entry, nil
}

func (r *EntryReader) Close() error {
	return r.file.Close()
}
