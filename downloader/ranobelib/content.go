package ranobelib

import (
	"context"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"ranobelib-downloader/utils"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const readerSelector = ".reader-container.container.container_center"

// FetchContent returns the reader markup of every chapter in hrefs that
// could be loaded, in input order.
func (r *Ranobelib) FetchContent(ctx context.Context, hrefs []string) ([]model.ReaderContent, error) {
	batch, err := r.FetchContentReport(ctx, hrefs, nil)
	if err != nil {
		return nil, err
	}
	return batch.Items, nil
}

// FetchContentReport loads all hrefs with a single browser. A chapter that
// fails is logged, reported to progress and listed in the batch's Failed
// hrefs; the rest of the batch still runs. An empty hrefs yields an empty
// batch without starting a browser.
func (r *Ranobelib) FetchContentReport(ctx context.Context, hrefs []string, progress func(href string, err error)) (*model.ContentBatch, error) {
	if len(hrefs) == 0 {
		return &model.ContentBatch{Items: []model.ReaderContent{}}, nil
	}
	log.Printf("Getting %v chapters\n", len(hrefs))

	batch := &model.ContentBatch{Items: make([]model.ReaderContent, 0, len(hrefs))}
	err := r.withPage(ctx, func(p Page) error {
		if err := r.applyCookies(ctx, p); err != nil {
			return err
		}
		for _, href := range hrefs {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := r.fetchChapter(p, href)
			if progress != nil {
				progress(href, err)
			}
			if err != nil {
				log.Printf("Skipping chapter %v: %v\n", href, err)
				batch.Failed = append(batch.Failed, href)
				continue
			}
			batch.Items = append(batch.Items, *content)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter content: %w", err)
	}
	return batch, nil
}

func (r *Ranobelib) fetchChapter(p Page, href string) (*model.ReaderContent, error) {
	log.Printf("Getting chapter %v\n", href)

	if err := p.Navigate(r.url(href), r.navigationTimeout); err != nil {
		return nil, err
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter page: %w", err)
	}
	text, err := ReaderMarkup(html)
	if err != nil {
		return nil, err
	}

	volume, chapter := utils.ParseLink(href)
	return &model.ReaderContent{
		Title:       model.ReaderTitle(volume, chapter),
		Href:        href,
		Volume:      volume,
		Chapter:     chapter,
		TextContent: text,
	}, nil
}

// ReaderMarkup returns the inner markup of the reader container, or an empty
// string when the page has none.
func ReaderMarkup(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %v", err)
	}
	reader := doc.Find(readerSelector).First()
	if reader.Length() == 0 {
		return "", nil
	}
	text, err := reader.Html()
	if err != nil {
		return "", fmt.Errorf("failed to get html: %v", err)
	}
	return text, nil
}
