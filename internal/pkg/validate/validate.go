package validate

import "strings"

// Required reports whether a field carries more than whitespace.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}
