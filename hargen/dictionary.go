package hargen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// built-in word list, used when no dictionary path is given or the file is missing
var fallbackWords = []string{
	"test", "search", "api", "user", "data", "request", "response",
	"header", "body", "method", "status", "error", "success", "server",
	"client", "service", "endpoint", "query", "param", "cookie",
	"auth", "token", "key", "value", "name", "type", "content",
	"message", "result", "code", "text", "json", "xml", "html",
	"accept", "encoding", "language", "cache", "connection", "host",
	"agent", "referer", "origin", "location", "redirect", "proxy",
	"session", "timestamp", "date", "time", "duration", "size",
	"length", "count", "total", "limit", "offset", "version", "format",
	"charset", "boundary", "transfer", "gzip", "deflate", "chunked",
	"path", "fragment", "domain", "address", "network", "gateway",
}

// Dictionary holds a list of words for random selection
type Dictionary struct {
	words []string
	rng   *rand.Rand
}

// NewDictionary creates a dictionary over the built-in word list.
func NewDictionary(rng *rand.Rand) *Dictionary {
	return &Dictionary{words: fallbackWords, rng: rng}
}

// LoadDictionary loads words from a dictionary file, one per line.
// An empty path or a missing file falls back to the built-in word list.
func LoadDictionary(path string, rng *rand.Rand) (*Dictionary, error) {
	if path == "" {
		return NewDictionary(rng), nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDictionary(rng), nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if len(word) >= 3 && len(word) <= 15 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary %s", path)
	}

	return &Dictionary{words: words, rng: rng}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord() string {
	if len(d.words) == 0 {
		return "word"
	}
	return d.words[d.rng.Intn(len(d.words))]
}

// RandomWords returns n random words joined by sep
func (d *Dictionary) RandomWords(n int, sep string) string {
	if n <= 0 {
		return ""
	}
	words := make([]string, n)
	for i := range words {
		words[i] = d.RandomWord()
	}
	return strings.Join(words, sep)
}

// Size returns the number of words in the dictionary
func (d *Dictionary) Size() int {
	return len(d.words)
}
