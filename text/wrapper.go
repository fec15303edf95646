package text

import (
	"fmt"
	"os"
	"path/filepath"
	"ranobelib-downloader/model"
	"ranobelib-downloader/utils"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PackWorkToText writes one numbered .txt file per chapter into
// <outputPath>/<work title>/ and returns that directory.
func PackWorkToText(work model.Work, contents []model.ReaderContent, outputPath string) (string, error) {
	outputPath = filepath.Join(outputPath, utils.CleanDirName(work.Title))
	if err := os.RemoveAll(outputPath); err != nil {
		return "", fmt.Errorf("failed to remove output directory: %w", err)
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, content := range contents {
		chapterPath := filepath.Join(outputPath, fmt.Sprintf("%03d-%s.txt", i, utils.CleanDirName(content.Title)))
		text, err := plainText(content.TextContent)
		if err != nil {
			return "", fmt.Errorf("failed to parse chapter %v: %w", content.Href, err)
		}
		text = content.Title + "\n\n" + text + "\n"
		if err := os.WriteFile(chapterPath, []byte(text), 0644); err != nil {
			return "", fmt.Errorf("failed to write chapter file: %w", err)
		}
	}
	return outputPath, nil
}

// plainText keeps one line per paragraph and drops images.
func plainText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	doc.Find("img, script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	blocks := doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote")
	if blocks.Length() == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	lines := make([]string, 0, blocks.Length())
	blocks.Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("p, li, blockquote").Length() > 0 {
			return
		}
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n"), nil
}
