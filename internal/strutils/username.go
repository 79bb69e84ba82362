package strutils

import (
	"fmt"
	"strings"
	"unicode"
)

const maxUsernameLength = 64

// NormalizeUsername lowercases a chess.com username and validates its charset.
// chess.com treats usernames case-insensitively in API paths.
func NormalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", fmt.Errorf("empty username")
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username too long: %d characters", len(trimmed))
	}

	var normalized strings.Builder
	normalized.Grow(len(trimmed))

	for _, char := range trimmed {
		switch {
		case char >= 'a' && char <= 'z', char >= '0' && char <= '9', char == '_', char == '-':
			normalized.WriteRune(char)
		case char >= 'A' && char <= 'Z':
			normalized.WriteRune(unicode.ToLower(char))
		default:
			return "", fmt.Errorf("invalid character in username. input: '%s'", username)
		}
	}

	return normalized.String(), nil
}

// UsernameIsNormalized reports whether NormalizeUsername would return the input unchanged.
func UsernameIsNormalized(username string) bool {
	normalized, err := NormalizeUsername(username)
	return err == nil && normalized == username
}
