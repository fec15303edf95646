package utils

import (
	"ranobelib-downloader/model"
	"strconv"
	"strings"
)

// ParseLink splits a reader path such as "some-ranobe/v2/c15" into its
// volume and chapter numbers.
func ParseLink(link string) (volume string, chapter string) {
	if link == "" {
		return model.LinkUndefined, model.LinkUndefined
	}
	link, _, _ = strings.Cut(link, "?")
	parsed := strings.Split(link, "/")

	volume = model.VolumeNotFound
	chapter = model.ChapterNotFound
	if n := len(parsed); n >= 2 {
		if v, ok := strings.CutPrefix(parsed[n-2], "v"); ok && v != "" {
			volume = v
		}
	}
	if c, ok := strings.CutPrefix(parsed[len(parsed)-1], "c"); ok && c != "" {
		chapter = c
	}
	return volume, chapter
}

// ChapterRangeOf returns the chapter numbers of the first and last href in
// ascending order.
func ChapterRangeOf(hrefs []string) model.ChapterRange {
	var first, last string
	if len(hrefs) > 0 {
		first = hrefs[0]
		last = hrefs[len(hrefs)-1]
	}
	_, start := ParseLink(first)
	_, end := ParseLink(last)

	if chapterLess(end, start) {
		start, end = end, start
	}
	return model.ChapterRange{Start: start, End: end}
}

// chapterLess compares numerically when both sides are numbers, so "2" sorts
// before "10".
func chapterLess(a, b string) bool {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}
