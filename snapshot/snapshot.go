// Package snapshot stores response debug strings as golden files and compares
// fresh output against them.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

const extension = ".snap"

// ErrMismatch is returned by Compare when the stored snapshot differs.
var ErrMismatch = errors.New("snapshot mismatch")

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// Result describes the outcome of a Compare.
type Result struct {
	Name    string
	Path    string
	Created bool
	Updated bool
	Diff    string
}

// Matched reports whether the snapshot was already up to date.
func (r *Result) Matched() bool {
	return !r.Created && !r.Updated && r.Diff == ""
}

// Name builds a stable, filesystem safe snapshot name for a HAR entry.
func Name(index int, method, url string) string {
	url = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	slug := unsafeChars.ReplaceAllString(strings.ToLower(method+"-"+url), "_")
	slug = strings.Trim(slug, "_-")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	return fmt.Sprintf("%04d-%s", index, slug)
}

// Path returns the file path of a snapshot.
func Path(dir, name string) string {
	return filepath.Join(dir, name+extension)
}

// Read loads a stored snapshot.
func Read(dir, name string) (string, error) {
	b, err := os.ReadFile(Path(dir, name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write stores content as the snapshot called name, creating dir if needed.
func Write(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	path := Path(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	return path, nil
}

// Compare checks actual against the stored snapshot. With update set, missing
// or stale snapshots are (re)written; otherwise a missing snapshot is an error
// wrapping fs.ErrNotExist and a stale one returns ErrMismatch with a unified diff.
func Compare(dir, name, actual string, update bool) (*Result, error) {
	result := &Result{Name: name, Path: Path(dir, name)}

	expected, err := Read(dir, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !update {
			return result, fmt.Errorf("snapshot %s: %w", name, err)
		}
		if _, err := Write(dir, name, actual); err != nil {
			return result, err
		}
		result.Created = true
		return result, nil
	case err != nil:
		return result, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}

	if expected == actual {
		return result, nil
	}

	if update {
		if _, err := Write(dir, name, actual); err != nil {
			return result, err
		}
		result.Updated = true
		return result, nil
	}

	result.Diff = udiff.Unified(result.Path, "actual", expected, actual)
	return result, fmt.Errorf("%w: %s", ErrMismatch, name)
}
