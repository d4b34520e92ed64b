package util

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeNumber prepares a user-entered number for the wire: trims
// surrounding whitespace and applies NFKC so full-width digits collapse
// to their ASCII forms.
func NormalizeNumber(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// FormatDuration renders whole seconds as mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
