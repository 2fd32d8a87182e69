package security

import (
	"strings"
	"unicode"
)

const (
	// MaxRequestIDLength bounds a client supplied request id
	MaxRequestIDLength = 128
)

// ValidateRequestID checks a client supplied request id before it is echoed
// in a response header and written to logs. It returns the trimmed id and
// whether it may be used.
func ValidateRequestID(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxRequestIDLength {
		return "", false
	}

	for _, char := range id {
		if !isValidRequestIDChar(char) {
			return "", false
		}
	}

	return id, true
}

// isValidRequestIDChar allows ASCII letters, digits and a few separators
func isValidRequestIDChar(char rune) bool {
	if char > unicode.MaxASCII {
		return false
	}
	return unicode.IsLetter(char) || unicode.IsDigit(char) ||
		char == '-' || char == '_' || char == '.' || char == ':' || char == '/' || char == '='
}
