package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_. -]+`)

// Filename strips characters that are unsafe in a path segment and trims
// surrounding spaces. Letters and digits of any script are kept; the only
// whitespace kept is the plain space.
func Filename(input string) string {
	s := unsafeFilename.ReplaceAllString(input, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	return s
}

// Padded renders n with at least two digits so directories sort lexically.
func Padded(n int64) string {
	return fmt.Sprintf("%02d", n)
}
