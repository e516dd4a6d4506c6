package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pb33f/browserkit/headers"
)

// volatileHeaders change between otherwise identical responses and are left out of the debug string.
var volatileHeaders = []string{"date", "cache-control"}

// Response is an immutable HTTP response: status code, headers and body content.
// It is safe for concurrent reads.
type Response struct {
	content string
	status  int

	// raw headers exactly as supplied, returned by Headers()
	raw headers.Map

	// the same headers, normalized for lookups
	bag *headers.ResponseBag
}

// New creates a Response. Without options the response has an empty body,
// status 200 and no headers. Nothing is validated.
func New(opts ...Option) *Response {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewResponse(cfg.content, cfg.status, cfg.headers)
}

// NewResponse creates a Response from positional arguments.
func NewResponse(content string, status int, raw headers.Map) *Response {
	if raw == nil {
		raw = headers.Map{}
	}
	raw = raw.Clone()
	return &Response{
		content: content,
		status:  status,
		raw:     raw,
		bag:     headers.NewResponse(raw),
	}
}

// Content returns the response body.
func (r *Response) Content() string {
	return r.content
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// StatusText returns the standard reason phrase for the status code, empty when unknown.
func (r *Response) StatusText() string {
	return http.StatusText(r.status)
}

// Headers returns the raw headers as they were supplied.
func (r *Response) Headers() headers.Map {
	return r.raw.Clone()
}

// Header returns the first value of a header, matched case-insensitively.
// The boolean is false when the header is absent.
func (r *Response) Header(name string) (string, bool) {
	return r.bag.Lookup(name)
}

// HeaderValues returns all values of a header in order, nil when absent.
func (r *Response) HeaderValues(name string) []string {
	return r.bag.Values(name)
}

// HeaderBag returns a copy of the normalized header collection.
func (r *Response) HeaderBag() *headers.ResponseBag {
	return r.bag.Clone()
}

// String returns the debug form of the response, see DebugString.
func (r *Response) String() string {
	return r.DebugString()
}

// DebugString renders the headers lowercased without carriage returns, a blank
// line and then the body. Date and Cache-Control are dropped, as is every name in exclude.
func (r *Response) DebugString(exclude ...string) string {
	bag := r.bag.Clone()
	for _, name := range volatileHeaders {
		bag.Remove(name)
	}
	for _, name := range exclude {
		bag.Remove(name)
	}

	rendered := strings.ReplaceAll(strings.ToLower(bag.String()), "\r", "")
	return rendered + "\n" + r.content
}

// RawHeaderString renders the raw headers one "name: value" line per value,
// sorted by name, without any normalization.
func (r *Response) RawHeaderString() string {
	names := make([]string, 0, len(r.raw))
	for name := range r.raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		for _, v := range r.raw[name] {
			sb.WriteString(headerLine(name, v))
		}
	}
	return sb.String()
}

func headerLine(name, value string) string {
	return fmt.Sprintf("%s: %s\n", name, value)
}

type jsonResponse struct {
	Status  int         `json:"status"`
	Headers headers.Map `json:"headers"`
	Content string      `json:"content"`
}

// MarshalJSON encodes the status, raw headers and content.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonResponse{
		Status:  r.status,
		Headers: r.raw,
		Content: r.content,
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *Response) UnmarshalJSON(b []byte) error {
	var j jsonResponse
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*r = *NewResponse(j.Content, j.Status, j.Headers)
	return nil
}
