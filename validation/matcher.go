package validation

import (
	"path"
)

type PathMatcher interface {
	Match(path string) bool
}

// globMatcher matches request paths against path.Match patterns, "*" never crosses a slash.
type globMatcher struct {
	patterns []string
}

func NewGlobMatcher(patterns ...string) PathMatcher {
	return globMatcher{
		patterns: patterns,
	}
}

func (m globMatcher) Match(requestPath string) bool {
	for _, pattern := range m.patterns {
		matched, _ := path.Match(pattern, requestPath)
		if matched {
			return true
		}
	}
	return false
}
