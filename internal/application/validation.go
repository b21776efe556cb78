package application

import (
	"fmt"
	"strings"

	"lightdeck/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "primPath" -> "prim path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"primPath":  "prim path",
		"groupPath": "group path",
		"lightPath": "light path",
		"stagePath": "stage path",
		"gltfPath":  "glTF path",
		"property":  "property",
		"dayOfYear": "day of year",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidatePrimPath checks that a field holds an absolute, well-formed prim path.
func ValidatePrimPath(fieldName, path string) error {
	if err := ValidateRequired(fieldName, path); err != nil {
		return err
	}
	if err := domain.ValidatePath(path); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: err.Error(),
		}
	}
	return nil
}

// ValidateRange checks that value lies within [lo, hi].
func ValidateRange(fieldName string, value, lo, hi float64) error {
	if value < lo || value > hi {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s %g out of range %g..%g", formatFieldName(fieldName), value, lo, hi),
		}
	}
	return nil
}
