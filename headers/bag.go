package headers

import (
	"fmt"
	"sort"
	"strings"
)

// Map is a raw header mapping. A header present once holds a single element slice,
// a header present multiple times holds every value in the order received.
type Map map[string][]string

// FromSingle builds a Map from single valued headers.
func FromSingle(m map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = []string{v}
	}
	return out
}

// Clone returns a deep copy of the map, nil stays nil.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Bag is a case-insensitive, multi-value header collection.
// Names are normalized to lowercase with underscores turned into dashes,
// and the order in which names were first seen is kept.
type Bag struct {
	values map[string][]string
	order  []string
}

// New creates a Bag from a raw header map. Map iteration order is random in Go,
// so names are inserted sorted to keep the bag deterministic.
func New(m Map) *Bag {
	b := &Bag{values: make(map[string][]string, len(m))}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.Add(name, m[name]...)
	}
	return b
}

// Normalize returns the lookup key used for a header name.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// Get returns the first value for name, or an empty string.
func (b *Bag) Get(name string) string {
	v, _ := b.Lookup(name)
	return v
}

// Lookup returns the first value for name and whether the header exists.
func (b *Bag) Lookup(name string) (string, bool) {
	vals, ok := b.values[Normalize(name)]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns a copy of every value stored for name, nil when absent.
func (b *Bag) Values(name string) []string {
	vals, ok := b.values[Normalize(name)]
	if !ok {
		return nil
	}
	return append([]string(nil), vals...)
}

// Has reports whether name is present.
func (b *Bag) Has(name string) bool {
	_, ok := b.values[Normalize(name)]
	return ok
}

// Contains reports whether value is one of the values stored for name.
func (b *Bag) Contains(name, value string) bool {
	for _, v := range b.values[Normalize(name)] {
		if v == value {
			return true
		}
	}
	return false
}

// Set replaces all values of name.
func (b *Bag) Set(name string, values ...string) {
	key := Normalize(name)
	if _, ok := b.values[key]; !ok {
		b.order = append(b.order, key)
	}
	b.values[key] = append([]string(nil), values...)
}

// Add appends values to name.
func (b *Bag) Add(name string, values ...string) {
	key := Normalize(name)
	if _, ok := b.values[key]; !ok {
		b.order = append(b.order, key)
		b.values[key] = nil
	}
	b.values[key] = append(b.values[key], values...)
}

// Remove deletes name and all of its values.
func (b *Bag) Remove(name string) {
	key := Normalize(name)
	if _, ok := b.values[key]; !ok {
		return
	}
	delete(b.values, key)
	for i, n := range b.order {
		if n == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Clone returns an independent copy of the bag.
func (b *Bag) Clone() *Bag {
	c := &Bag{
		values: make(map[string][]string, len(b.values)),
		order:  append([]string(nil), b.order...),
	}
	for k, v := range b.values {
		c.values[k] = append([]string(nil), v...)
	}
	return c
}

// Names returns the normalized header names in insertion order.
func (b *Bag) Names() []string {
	return append([]string(nil), b.order...)
}

// All returns a copy of the bag keyed by normalized name.
func (b *Bag) All() Map {
	out := make(Map, len(b.values))
	for k, v := range b.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Len returns the number of distinct header names.
func (b *Bag) Len() int {
	return len(b.values)
}

// String renders the headers sorted by name, one value per line, with the
// names padded to a common width and terminated by CRLF.
func (b *Bag) String() string {
	if len(b.values) == 0 {
		return ""
	}

	names := make([]string, 0, len(b.values))
	width := 0
	for name := range b.values {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	width++

	var sb strings.Builder
	for _, name := range names {
		display := titleCase(name) + ":"
		for _, v := range b.values[name] {
			fmt.Fprintf(&sb, "%-*s %s\r\n", width, display, v)
		}
	}
	return sb.String()
}

// titleCase upper-cases the first letter of every dash separated segment.
func titleCase(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
