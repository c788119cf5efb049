package output

import (
	"fmt"
	"strings"
)

// FormatHeader returns a Markdown header of the given level (1-6).
func FormatHeader(level int, text string) string {
	level = min(max(level, 1), 6)
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a Markdown bullet "- **key:** value".
func FormatKeyValue(key string, value any) string {
	return fmt.Sprintf("- **%s:** %v", key, value)
}
