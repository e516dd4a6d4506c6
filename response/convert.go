package response

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pb33f/browserkit/headers"
	"github.com/pb33f/harhar"
)

// ErrBodyTooLarge is returned when a body exceeds the configured read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// FromHTTP reads an *http.Response into a Response and closes its body.
// A maxBody of zero or less reads the body without limit.
func FromHTTP(resp *http.Response, maxBody int64) (*Response, error) {
	if resp == nil {
		return nil, errors.New("nil http response")
	}

	var content []byte
	if resp.Body != nil {
		defer resp.Body.Close()

		var err error
		content, err = readAllWithLimit(resp.Body, maxBody)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	}

	raw := make(headers.Map, len(resp.Header))
	for name, values := range resp.Header {
		raw[name] = append([]string(nil), values...)
	}

	return NewResponse(string(content), resp.StatusCode, raw), nil
}

// FromHAR converts a recorded HAR response. Repeated header names are
// collected into a single multi-value entry and base64 bodies are decoded.
func FromHAR(r harhar.Response) (*Response, error) {
	raw := make(headers.Map, len(r.Headers))
	for _, h := range r.Headers {
		raw[h.Name] = append(raw[h.Name], h.Value)
	}

	content := r.Body.Content
	if r.Body.Encoding == "base64" && content != "" {
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		content = string(decoded)
	}

	return NewResponse(content, r.StatusCode, raw), nil
}

func readAllWithLimit(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}

	// read one byte past the limit so an exact fit is not reported as too large
	b, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxSize {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}
