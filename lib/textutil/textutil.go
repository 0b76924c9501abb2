package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// SanitizeTitle makes a course name usable as a sheet/tab title,
// spreadsheet tools reject slashes in sheet names.
func SanitizeTitle(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
