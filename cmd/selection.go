package cmd

import (
	"fmt"
	"ranobelib-downloader/model"
	"slices"
	"strconv"
	"strings"
)

// selectChapters picks chapters by 1-based position. The selection is a
// comma separated list of indices and ranges like "1,3,5-12"; empty selects
// everything. Order follows the list, duplicates are dropped.
func selectChapters(all []model.Chapter, selection string) ([]model.Chapter, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return all, nil
	}

	seen := make(map[int]bool)
	var picked []int
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		start, end, err := parseSpan(part)
		if err != nil {
			return nil, err
		}
		if start < 1 || end > len(all) || start > end {
			return nil, fmt.Errorf("chapter range %q is outside 1-%d", part, len(all))
		}
		for i := start; i <= end; i++ {
			if !seen[i] {
				seen[i] = true
				picked = append(picked, i)
			}
		}
	}
	slices.Sort(picked)

	out := make([]model.Chapter, 0, len(picked))
	for _, i := range picked {
		out = append(out, all[i-1])
	}
	return out, nil
}

func parseSpan(part string) (int, int, error) {
	from, to, isRange := strings.Cut(part, "-")
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("bad chapter index %q", part)
	}
	if !isRange {
		return start, start, nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("bad chapter index %q", part)
	}
	return start, end, nil
}

func chapterHrefs(chapters []model.Chapter) []string {
	hrefs := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		if chapter.Href == model.EmptyField {
			continue
		}
		hrefs = append(hrefs, chapter.Href)
	}
	return hrefs
}
