package motor

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchMode defines the type of search to perform
type SearchMode int

const (
	PlainText SearchMode = iota
	Regex
)

type compiledPattern struct {
	mode      SearchMode
	plainText string
	regex     *regexp.Regexp
}

func compilePattern(pattern string, mode SearchMode) (compiledPattern, error) {
	cp := compiledPattern{mode: mode}

	if mode == Regex {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return cp, fmt.Errorf("invalid regex pattern: %w", err)
		}
		cp.regex = regex
		return cp, nil
	}

	cp.plainText = pattern
	return cp, nil
}

func (p compiledPattern) matches(haystack string) bool {
	if p.mode == Regex {
		return p.regex.MatchString(haystack)
	}
	return strings.Contains(haystack, p.plainText)
}
