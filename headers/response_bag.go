package headers

import (
	"regexp"
	"sort"
	"strings"
)

const cacheControlHeader = "cache-control"

var (
	cacheDirective = regexp.MustCompile(`([a-zA-Z][a-zA-Z_-]*)\s*(?:=(?:"([^"]*)"|([^ \t",;]*)))?`)
	needsQuoting   = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

	// headers that influence the computed cache-control value
	cacheSensitive = map[string]struct{}{
		cacheControlHeader: {},
		"etag":             {},
		"last-modified":    {},
		"expires":          {},
	}
)

// ResponseBag is a Bag for response headers. It always carries a Cache-Control
// header, computed from the explicit directives and the validators present.
type ResponseBag struct {
	*Bag
	directives map[string]string
}

// NewResponse creates a ResponseBag from a raw header map.
func NewResponse(m Map) *ResponseBag {
	rb := &ResponseBag{
		Bag:        New(m),
		directives: make(map[string]string),
	}
	if v, ok := rb.Bag.Lookup(cacheControlHeader); ok {
		rb.directives = parseCacheControl(v)
	}
	rb.recompute()
	return rb
}

// Set replaces all values of name, recomputing Cache-Control when needed.
func (rb *ResponseBag) Set(name string, values ...string) {
	key := Normalize(name)
	if key == cacheControlHeader {
		rb.directives = make(map[string]string)
		if len(values) > 0 {
			rb.directives = parseCacheControl(values[0])
		}
	}
	rb.Bag.Set(name, values...)
	if _, ok := cacheSensitive[key]; ok {
		rb.recompute()
	}
}

// Add appends values to name, recomputing Cache-Control when needed.
func (rb *ResponseBag) Add(name string, values ...string) {
	key := Normalize(name)
	if key == cacheControlHeader {
		rb.Set(name, values...)
		return
	}
	rb.Bag.Add(name, values...)
	if _, ok := cacheSensitive[key]; ok {
		rb.recompute()
	}
}

// Remove deletes name. Removing Cache-Control also drops its directives.
func (rb *ResponseBag) Remove(name string) {
	if Normalize(name) == cacheControlHeader {
		rb.directives = make(map[string]string)
	}
	rb.Bag.Remove(name)
}

// Clone returns an independent copy of the bag and its directives.
func (rb *ResponseBag) Clone() *ResponseBag {
	directives := make(map[string]string, len(rb.directives))
	for k, v := range rb.directives {
		directives[k] = v
	}
	return &ResponseBag{
		Bag:        rb.Bag.Clone(),
		directives: directives,
	}
}

// CacheControlDirective returns the value of an explicit Cache-Control directive.
// Directives without a value report an empty string.
func (rb *ResponseBag) CacheControlDirective(name string) (string, bool) {
	v, ok := rb.directives[strings.ToLower(name)]
	return v, ok
}

func (rb *ResponseBag) recompute() {
	rb.Bag.Set(cacheControlHeader, rb.computeCacheControl())
}

func (rb *ResponseBag) computeCacheControl() string {
	if len(rb.directives) == 0 {
		if rb.Has("etag") || rb.Has("last-modified") || rb.Has("expires") {
			return "private, must-revalidate"
		}
		return "no-cache"
	}

	header := renderCacheControl(rb.directives)
	_, public := rb.directives["public"]
	_, private := rb.directives["private"]
	if public || private {
		return header
	}
	if _, ok := rb.directives["s-maxage"]; !ok {
		return header + ", private"
	}
	return header
}

func parseCacheControl(header string) map[string]string {
	directives := make(map[string]string)
	for _, m := range cacheDirective.FindAllStringSubmatchIndex(header, -1) {
		name := strings.ToLower(header[m[2]:m[3]])
		switch {
		case m[6] >= 0:
			directives[name] = header[m[6]:m[7]]
		case m[4] >= 0:
			directives[name] = header[m[4]:m[5]]
		default:
			directives[name] = ""
		}
	}
	return directives
}

func renderCacheControl(directives map[string]string) string {
	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := directives[name]
		if v == "" {
			parts = append(parts, name)
			continue
		}
		if needsQuoting.MatchString(v) {
			v = `"` + v + `"`
		}
		parts = append(parts, name+"="+v)
	}
	return strings.Join(parts, ", ")
}
