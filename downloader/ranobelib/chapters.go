package ranobelib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrEmptyHref = errors.New("href is empty")

const (
	chapterItemSelector = ".vue-recycle-scroller__item-view"

	viewportWidth  = 1920
	viewportHeight = 1080

	viewportMetricsScript = `({innerHeight: window.innerHeight, scrollHeight: document.body.scrollHeight})`
	scrollHeightScript    = `document.body.scrollHeight`
)

func scrollScript(step float64) string {
	return fmt.Sprintf("window.scrollBy(0, %v); window.scrollY", step)
}

type viewportMetrics struct {
	InnerHeight  float64 `json:"innerHeight"`
	ScrollHeight float64 `json:"scrollHeight"`
}

// chapterSet keeps chapters in first-seen order, keyed by title.
type chapterSet struct {
	chapters []model.Chapter
	seen     map[string]struct{}
}

func newChapterSet() *chapterSet {
	return &chapterSet{seen: make(map[string]struct{})}
}

func (s *chapterSet) Add(chapter model.Chapter) bool {
	if _, ok := s.seen[chapter.Title]; ok {
		return false
	}
	s.seen[chapter.Title] = struct{}{}
	s.chapters = append(s.chapters, chapter)
	return true
}

func (s *chapterSet) Len() int {
	return len(s.chapters)
}

func (s *chapterSet) Values() []model.Chapter {
	values := make([]model.Chapter, len(s.chapters))
	copy(values, s.chapters)
	return values
}

// ListChapters collects the table of contents of a work. The site renders the
// list virtually, so the page is scrolled half a viewport at a time and every
// rendered window is merged into the result.
func (r *Ranobelib) ListChapters(ctx context.Context, href string) ([]model.Chapter, error) {
	href = strings.TrimPrefix(href, "/")
	if href == "" {
		return nil, ErrEmptyHref
	}
	log.Printf("Getting chapters of %v\n", href)

	chaptersUrl := fmt.Sprintf("%s/%s?section=chapters", r.baseURL, href)
	var chapters []model.Chapter
	err := r.withPage(ctx, func(p Page) error {
		if err := r.applyCookies(ctx, p); err != nil {
			return err
		}
		if err := p.SetViewport(viewportWidth, viewportHeight); err != nil {
			return fmt.Errorf("failed to set viewport: %w", err)
		}
		if err := p.Navigate(chaptersUrl, 0); err != nil {
			return err
		}
		chapters = r.harvestChapters(ctx, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	return chapters, nil
}

// harvestChapters never fails: on error it logs and returns what was
// collected so far.
func (r *Ranobelib) harvestChapters(ctx context.Context, p Page) []model.Chapter {
	chapters := newChapterSet()
	if err := r.scrollChapters(ctx, p, chapters); err != nil {
		log.Printf("Chapter list stopped after %v chapters: %v\n", chapters.Len(), err)
	}
	return chapters.Values()
}

func (r *Ranobelib) scrollChapters(ctx context.Context, p Page, chapters *chapterSet) error {
	var metrics viewportMetrics
	if err := p.Evaluate(viewportMetricsScript, &metrics); err != nil {
		return fmt.Errorf("failed to read viewport: %w", err)
	}
	step := metrics.InnerHeight / 2
	if step <= 0 {
		return fmt.Errorf("invalid viewport height: %v", metrics.InnerHeight)
	}

	scrolled := 0.0
	scrollHeight := metrics.ScrollHeight
	for scrolled < scrollHeight {
		html, err := p.HTML()
		if err != nil {
			return fmt.Errorf("failed to read chapter list: %w", err)
		}
		items, err := ParseChapterItems(html)
		if err != nil {
			return err
		}
		for _, chapter := range items {
			chapters.Add(chapter)
		}

		var scrollY float64
		if err := p.Evaluate(scrollScript(step), &scrollY); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}
		scrolled += step

		if err := r.wait(ctx, r.scrollDelay); err != nil {
			return err
		}
		if err := p.Evaluate(scrollHeightScript, &scrollHeight); err != nil {
			return fmt.Errorf("failed to read scroll height: %w", err)
		}
	}
	return nil
}

// ParseChapterItems reads the chapters currently rendered by the virtual
// scroller. Each item holds a media body whose children are, in order, the
// chapter link, the translator and the upload date.
func ParseChapterItems(html string) ([]model.Chapter, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %v", err)
	}

	chapters := make([]model.Chapter, 0)
	doc.Find(chapterItemSelector).Each(func(i int, item *goquery.Selection) {
		fields := item.Children().Eq(0).Children().Eq(1).Children()
		if fields.Length() == 0 {
			return
		}
		chapter := model.Chapter{
			Title:  model.EmptyField,
			Href:   model.EmptyField,
			Author: model.EmptyField,
			Date:   model.EmptyField,
		}
		fields.Each(func(j int, field *goquery.Selection) {
			switch j {
			case 0:
				link := field.Children().Eq(0)
				chapter.Title = orEmpty(strings.TrimSpace(link.Text()))
				chapter.Href = orEmpty(strings.TrimPrefix(link.AttrOr("href", ""), "/"))
			case 1:
				chapter.Author = orEmpty(strings.TrimSpace(field.Text()))
			case 2:
				chapter.Date = orEmpty(strings.TrimSpace(field.Text()))
			}
		})
		chapters = append(chapters, chapter)
	})
	return chapters, nil
}

func orEmpty(s string) string {
	if s == "" {
		return model.EmptyField
	}
	return s
}
