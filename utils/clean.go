package utils

import (
	"regexp"
	"strings"
)

var unsafeNameRegexp = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

func CleanDirName(input string) string {
	cleaned := unsafeNameRegexp.ReplaceAllString(input, "_")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
