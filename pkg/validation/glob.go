package validation

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterGlob keeps only the paths matching at least one of the given
// doublestar patterns. With no patterns every path is kept. Patterns are
// matched against the path with its leading slash stripped, so "blog/**"
// matches "/blog/2024/post".
//
// Used by callers that collect broad candidate lists (e.g. a sitemap walk)
// and want to narrow them before sanitization.
func FilterGlob(paths, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return paths, nil
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid match pattern %q", pattern)
		}
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimPrefix(p, "/")
		for _, pattern := range patterns {
			matched, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
			}
			if matched {
				kept = append(kept, p)
				break
			}
		}
	}

	return kept, nil
}
