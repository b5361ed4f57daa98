package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node identifiers read from graph files.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier read from external input.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node ID too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node ID contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidNodeID, "node ID cannot be blank")
	}

	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
// name identifies the parameter in the error message.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidParameter, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects values that are not finite or below zero.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidParameter, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateFraction rejects values outside the open interval (0, 1).
// Cooling factors use this: 1 never cools and 0 freezes immediately.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 || v >= 1 {
		return New(ErrCodeInvalidParameter, "%s must be in (0, 1), got %v", name, v)
	}
	return nil
}
