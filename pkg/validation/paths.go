package validation

import "strings"

// MaxInvalidationPaths is the maximum number of paths accepted in a single
// invalidation request. This is a hard ceiling imposed by the CloudFront
// API, not a tunable.
const MaxInvalidationPaths = 3000

// SanitizePaths turns an arbitrary list of caller-supplied values into a
// validated, deduplicated list of absolute paths.
//
// Normalization rules, applied per element:
//   - Non-string values are dropped silently (triggers hand over whatever
//     their host framework gave them, including numbers and nils).
//   - Strings are trimmed of surrounding whitespace; empty results are
//     dropped.
//   - Survivors not beginning with "/" get one prefixed. This is
//     auto-correction, not rejection; the settings layer applies a stricter
//     reject-on-bad-line rule for the configured default list, and the two
//     are intentionally different.
//   - Duplicates are removed, keeping first-occurrence order.
//
// Failure cases:
//   - nil or empty input fails with CodeInvalidPaths.
//   - Zero survivors fails with CodeNoValidPaths.
//   - More than MaxInvalidationPaths survivors fails with
//     CodeTooManyPaths, with the actual count in the message.
func SanitizePaths(candidates []any) ([]string, *Error) {
	if len(candidates) == 0 {
		return nil, Errorf(CodeInvalidPaths, "no invalidation paths provided")
	}

	seen := make(map[string]struct{}, len(candidates))
	paths := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		s, ok := candidate.(string)
		if !ok {
			continue
		}

		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		if !strings.HasPrefix(s, "/") {
			s = "/" + s
		}

		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		paths = append(paths, s)
	}

	if len(paths) == 0 {
		return nil, Errorf(CodeNoValidPaths, "no valid invalidation paths after normalization")
	}

	if len(paths) > MaxInvalidationPaths {
		return nil, Errorf(CodeTooManyPaths, "%d paths exceed the per-request limit of %d", len(paths), MaxInvalidationPaths)
	}

	return paths, nil
}

// SanitizeStrings is a convenience wrapper over SanitizePaths for callers
// that already hold a []string.
func SanitizeStrings(paths []string) ([]string, *Error) {
	candidates := make([]any, len(paths))
	for i, p := range paths {
		candidates[i] = p
	}
	return SanitizePaths(candidates)
}
