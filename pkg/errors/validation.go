package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators (IDs appear in URL paths and export filenames)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNodeID, "node ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node ID contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidNodeID, "node ID cannot contain path separators")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidNodeID, "node ID cannot contain %q", "..")
	}

	return nil
}

// ValidateValue validates a node value. Values represent monetary worth and
// must be non-negative finite numbers.
func ValidateValue(v float64) error {
	if v < 0 {
		return New(ErrCodeInvalidValue, "value must be non-negative")
	}
	if v != v || v > 1e18 {
		return New(ErrCodeInvalidValue, "value out of range")
	}
	return nil
}

// ValidateSettings validates analysis settings.
// The minimum children threshold must be at least 1 and the balance factor
// must fall in [0, 1].
func ValidateSettings(minChildren int, balanceFactor float64) error {
	if minChildren < 1 {
		return New(ErrCodeInvalidSettings, "min_children_threshold: must be at least 1")
	}
	if balanceFactor < 0 || balanceFactor > 1 {
		return New(ErrCodeInvalidSettings, "balance_factor: must be between 0 and 1")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
