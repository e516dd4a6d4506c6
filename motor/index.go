package motor

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pb33f/harhar"
)

const (
	keyLog     = "log"
	keyVersion = "version"
	keyCreator = "creator"
	keyBrowser = "browser"
	keyPages   = "pages"
	keyEntries = "entries"
)

// IndexBuilder scans a HAR document once and records where each entry lives.
type IndexBuilder struct {
	index *Index
}

func NewIndexBuilder(filePath string) *IndexBuilder {
	return &IndexBuilder{
		index: &Index{
			FilePath:     filePath,
			Entries:      make([]*EntryMetadata, 0),
			StatusCounts: make(map[int]int),
		},
	}
}

// Build streams the document through the decoder while hashing every byte read.
// Entry offsets are relative to the start of reader.
func (b *IndexBuilder) Build(reader io.Reader) (*Index, error) {
	startTime := time.Now()

	counter := &hashingReader{reader: reader, hash: xxhash.New()}
	decoder := newHARDecoder(counter)

	if err := b.parseHAR(decoder); err != nil {
		return nil, fmt.Errorf("failed to parse har file: %w", err)
	}

	// the decoder buffers ahead; drain the rest so size and hash cover the whole file
	if _, err := io.Copy(io.Discard, counter); err != nil {
		return nil, fmt.Errorf("failed to read har file: %w", err)
	}

	b.index.FileHash = fmt.Sprintf("%x", counter.hash.Sum64())
	b.index.FileSize = counter.n
	b.index.TotalEntries = len(b.index.Entries)
	b.index.BuildTime = time.Since(startTime)

	urls := make(map[string]struct{}, len(b.index.Entries))
	for _, entry := range b.index.Entries {
		urls[entry.URL] = struct{}{}
	}
	b.index.UniqueURLs = len(urls)

	return b.index, nil
}

func (b *IndexBuilder) parseHAR(decoder HARDecoder) error {
	if err := expectDelim(decoder, '{'); err != nil {
		return err
	}

	for decoder.More() {
		key, err := nextKey(decoder)
		if err != nil {
			return err
		}

		if key == keyLog {
			if err := b.parseLog(decoder); err != nil {
				return err
			}
			continue
		}
		if err := skipValue(decoder); err != nil {
			return err
		}
	}

	return nil
}

func (b *IndexBuilder) parseLog(decoder HARDecoder) error {
	if err := expectDelim(decoder, '{'); err != nil {
		return err
	}

	for decoder.More() {
		key, err := nextKey(decoder)
		if err != nil {
			return err
		}

		switch key {
		case keyVersion:
			err = decoder.Decode(&b.index.Version)
		case keyCreator:
			var creator harhar.Creator
			err = decoder.Decode(&creator)
			b.index.Creator = &creator
		case keyBrowser:
			var browser harhar.Creator
			err = decoder.Decode(&browser)
			b.index.Browser = &browser
		case keyPages:
			err = decoder.Decode(&b.index.Pages)
		case keyEntries:
			err = b.parseEntries(decoder)
		default:
			err = skipValue(decoder)
		}
		if err != nil {
			return fmt.Errorf("log.%s: %w", key, err)
		}
	}

	// closing brace of log
	_, err := decoder.Token()
	return err
}

func (b *IndexBuilder) parseEntries(decoder HARDecoder) error {
	if err := expectDelim(decoder, '['); err != nil {
		return err
	}

	for i := 0; decoder.More(); i++ {
		startOffset := decoder.InputOffset()

		var entry harhar.Entry
		if err := decoder.Decode(&entry); err != nil {
			return fmt.Errorf("failed to parse entry %d: %w", i, err)
		}

		metadata := b.metadataFor(&entry)
		metadata.FileOffset = startOffset
		metadata.Length = decoder.InputOffset() - startOffset
		b.AddEntry(metadata)
	}

	// closing bracket of entries
	_, err := decoder.Token()
	return err
}

func (b *IndexBuilder) metadataFor(entry *harhar.Entry) *EntryMetadata {
	idx := b.index
	metadata := &EntryMetadata{
		Method:      idx.Intern(entry.Request.Method),
		URL:         idx.Intern(entry.Request.URL),
		StatusCode:  entry.Response.StatusCode,
		StatusText:  idx.Intern(entry.Response.StatusText),
		MimeType:    idx.Intern(entry.Response.Body.MIMEType),
		Duration:    entry.Time,
		BodySize:    int64(entry.Response.Body.Size),
		HeaderCount: len(entry.Response.Headers),
		ServerIP:    idx.Intern(entry.ServerIP),
		IsBase64:    entry.Response.Body.Encoding == "base64",
	}

	if entry.Start != "" {
		if t, err := time.Parse(time.RFC3339, entry.Start); err == nil {
			metadata.Timestamp = t
		}
	}

	return metadata
}

// AddEntry appends metadata and updates the aggregate counters.
func (b *IndexBuilder) AddEntry(metadata *EntryMetadata) {
	idx := b.index
	idx.Entries = append(idx.Entries, metadata)
	idx.StatusCounts[metadata.StatusCode]++

	if metadata.Timestamp.IsZero() {
		return
	}
	if idx.TimeRange.Start.IsZero() || metadata.Timestamp.Before(idx.TimeRange.Start) {
		idx.TimeRange.Start = metadata.Timestamp
	}
	if metadata.Timestamp.After(idx.TimeRange.End) {
		idx.TimeRange.End = metadata.Timestamp
	}
}

func (b *IndexBuilder) GetIndex() *Index {
	return b.index
}

func expectDelim(decoder HARDecoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token != want {
		return fmt.Errorf("expected %q, got %v", want, token)
	}
	return nil
}

func nextKey(decoder HARDecoder) (string, error) {
	token, err := decoder.Token()
	if err != nil {
		return "", err
	}
	key, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", token)
	}
	return key, nil
}

type hashingReader struct {
	reader io.Reader
	hash   *xxhash.Digest
	n      int64
}

func (r *hashingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.hash.Write(p[:n])
		r.n += int64(n)
	}
	return n, err
}
