package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePaths(t *testing.T) {
	tests := []struct {
		name     string
		input    []any
		want     []string
		wantCode Code
	}{
		{
			name:     "nil input",
			input:    nil,
			wantCode: CodeInvalidPaths,
		},
		{
			name:     "empty input",
			input:    []any{},
			wantCode: CodeInvalidPaths,
		},
		{
			name:  "leading slash auto-added",
			input: []any{"blog/*", "images/logo.png"},
			want:  []string{"/blog/*", "/images/logo.png"},
		},
		{
			name:  "duplicates removed preserving first-seen order",
			input: []any{"/*", "/blog/*", "/*", "/images/*", "/blog/*"},
			want:  []string{"/*", "/blog/*", "/images/*"},
		},
		{
			name:  "whitespace trimmed",
			input: []any{"  /blog/  ", "\t/images\n"},
			want:  []string{"/blog/", "/images"},
		},
		{
			name:  "non-strings dropped silently",
			input: []any{42, nil, "/keep", true, []string{"/nested"}, 3.14},
			want:  []string{"/keep"},
		},
		{
			name:  "duplicate after normalization collapses",
			input: []any{"blog/*", "/blog/*", "  /blog/*  "},
			want:  []string{"/blog/*"},
		},
		{
			name:     "only empty strings",
			input:    []any{"", "   ", "\t"},
			wantCode: CodeNoValidPaths,
		},
		{
			name:     "only non-strings",
			input:    []any{1, 2, nil},
			wantCode: CodeNoValidPaths,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, verr := SanitizePaths(tt.input)
			if tt.wantCode != "" {
				require.NotNil(t, verr)
				assert.Equal(t, tt.wantCode, verr.Code)
				assert.Nil(t, got)
				return
			}
			require.Nil(t, verr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizePathsLimit(t *testing.T) {
	build := func(n int) []any {
		paths := make([]any, n)
		for i := range paths {
			paths[i] = fmt.Sprintf("/path/%d", i)
		}
		return paths
	}

	t.Run("exactly at the limit succeeds", func(t *testing.T) {
		got, verr := SanitizePaths(build(MaxInvalidationPaths))
		require.Nil(t, verr)
		assert.Len(t, got, MaxInvalidationPaths)
	})

	t.Run("one over the limit fails with the count", func(t *testing.T) {
		got, verr := SanitizePaths(build(MaxInvalidationPaths + 1))
		require.NotNil(t, verr)
		assert.Equal(t, CodeTooManyPaths, verr.Code)
		assert.Contains(t, verr.Message, "3001")
		assert.Nil(t, got)
	})

	t.Run("duplicates do not count against the limit", func(t *testing.T) {
		paths := build(MaxInvalidationPaths)
		paths = append(paths, "/path/0", "/path/1")
		got, verr := SanitizePaths(paths)
		require.Nil(t, verr)
		assert.Len(t, got, MaxInvalidationPaths)
	})
}

func TestSanitizeStrings(t *testing.T) {
	got, verr := SanitizeStrings([]string{"blog/*", "blog/*"})
	require.Nil(t, verr)
	assert.Equal(t, []string{"/blog/*"}, got)
}

func TestErrorFormatting(t *testing.T) {
	e := FieldErrorf(CodeInvalidRegion, "aws_region", "bad value")
	assert.Equal(t, "InvalidRegion: aws_region: bad value", e.Error())

	e = Errorf(CodeNoValidPaths, "nothing left")
	assert.Equal(t, "NoValidPaths: nothing left", e.Error())
}
