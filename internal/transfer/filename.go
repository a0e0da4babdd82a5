package transfer

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var dashes = regexp.MustCompile("-+")

// Filename returns the file name an export of storeName taken at t is saved
// under, for example "pharmastore-main-street-20250601-120000.json".
func Filename(storeName string, t time.Time) string {
	return "pharmastore-" + sanitizeName(storeName) + "-" + t.UTC().Format("20060102-150405") + ".json"
}

func sanitizeName(name string) string {
	result := strings.ToLower(strings.TrimSpace(name))
	result = strings.ReplaceAll(result, " ", "-")

	var builder strings.Builder
	for _, r := range result {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}

	result = dashes.ReplaceAllString(builder.String(), "-")
	result = strings.Trim(result, "-")
	if runes := []rune(result); len(runes) > 40 {
		result = strings.TrimRight(string(runes[:40]), "-")
	}
	if result == "" {
		result = "store"
	}
	return result
}
