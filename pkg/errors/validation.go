package errors

import (
	"strings"
	"unicode"
)

// maxSegmentLength bounds a single coordinate segment.
const maxSegmentLength = 256

// ValidateSegment validates one segment of a module coordinate for safety.
// Segments are spliced verbatim into repository URL paths, so anything that
// could change the shape of the path is rejected.
//
// The validation rules are intentionally conservative:
//   - No empty segments
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - No parent directory sequences (..)
//   - Maximum length of 256 characters
//
// The kind argument ("group", "artifact", "version") is only used in messages.
func ValidateSegment(kind, value string) error {
	if value == "" {
		return New(ErrCodeMalformedCoordinate, "%s cannot be empty", kind)
	}

	if len(value) > maxSegmentLength {
		return New(ErrCodeMalformedCoordinate, "%s too long (max %d characters)", kind, maxSegmentLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateContentRoot validates a repository content root.
//
// An empty root is allowed and yields paths starting with "/". A non-empty
// root must be absolute, must not end with "/" (the resolver appends its own
// separator) and must not contain traversal sequences or control characters.
func ValidateContentRoot(root string) error {
	if root == "" {
		return nil
	}

	for _, r := range root {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLocation, "content root contains invalid characters")
		}
	}

	if !strings.HasPrefix(root, "/") {
		return New(ErrCodeInvalidLocation, "content root must start with /: %q", root)
	}

	if strings.HasSuffix(root, "/") {
		return New(ErrCodeInvalidLocation, "content root must not end with /: %q", root)
	}

	if strings.Contains(root, "..") {
		return New(ErrCodeInvalidLocation, "content root cannot contain path traversal sequences (..)")
	}

	if strings.Contains(root, "\\") {
		return New(ErrCodeInvalidLocation, "content root cannot contain backslashes")
	}

	return nil
}

// ValidateHostPort validates a repository host and port.
func ValidateHostPort(host string, port int) error {
	if strings.TrimSpace(host) == "" {
		return New(ErrCodeInvalidLocation, "repository host cannot be empty")
	}
	if strings.ContainsAny(host, "/\\ ") {
		return New(ErrCodeInvalidLocation, "repository host contains invalid characters: %q", host)
	}
	if port < 1 || port > 65535 {
		return New(ErrCodeInvalidLocation, "repository port out of range: %d", port)
	}
	return nil
}
