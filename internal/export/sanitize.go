package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var (
	invalidFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)
	repeatedWhitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a page title into a name that is safe on common
// filesystems. Empty or fully stripped titles become "Untitled".
func SanitizeFilename(name string) string {
	sanitized := invalidFilenameChars.ReplaceAllString(name, "_")
	sanitized = strings.Trim(sanitized, ". ")
	sanitized = repeatedWhitespace.ReplaceAllString(sanitized, " ")

	if runes := []rune(sanitized); len(runes) > maxFilenameLength {
		sanitized = strings.TrimRight(string(runes[:maxFilenameLength]), ". ")
	}

	if sanitized == "" {
		sanitized = "Untitled"
	}

	return sanitized
}

// MakeUniqueFilename returns a path under dir for the given title that does
// not collide with an existing file. Collisions get a _1, _2, ... suffix.
func MakeUniqueFilename(dir, name, extension string) string {
	sanitized := SanitizeFilename(name)
	path := filepath.Join(dir, sanitized+extension)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	for counter := 1; ; counter++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", sanitized, counter, extension))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
