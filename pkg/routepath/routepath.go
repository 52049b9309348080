// Package routepath validates and splits relative URL paths before they
// reach a navigation sink.
package routepath

import (
	"errors"
	"strings"
)

// Navigation path errors.
var (
	ErrNotRelative     = errors.New("navigation path must be relative")
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
	ErrEscapesRoot     = errors.New("path escapes root via ..")
)

// Split separates a URL into path and query. The query is returned without
// the leading "?".
func Split(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// Join recombines a path and query, adding "?" only when the query is
// non-empty.
func Join(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// ValidateNavURL checks that a generated URL is safe to hand to a
// navigation sink. Absolute URLs and protocol-relative URLs are rejected to
// prevent open redirects; backslashes, NUL bytes and root-escaping ".."
// segments are rejected as smuggling attempts. The URL itself is returned
// unmodified on success.
func ValidateNavURL(raw string) (string, error) {
	path, _ := Split(raw)

	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") ||
		!strings.HasPrefix(path, "/") {
		return "", ErrNotRelative
	}
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}

	// Walk segments to catch ".." escaping above the root.
	depth := 0
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", ErrEscapesRoot
			}
		default:
			depth++
		}
	}

	return raw, nil
}
