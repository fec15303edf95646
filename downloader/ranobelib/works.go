package ranobelib

import (
	"context"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	bookmarkItemSelector  = ".bookmark__list.paper .bookmark-item"
	bookmarkCoverSelector = ".bookmark-item__cover"
	bookmarkNameSelector  = ".bookmark-item__name"
)

var backgroundURLRegexp = regexp.MustCompile(`\((.*?)\)`)

// ListWorks returns the bookmarks of userId using the stored session cookies.
func (r *Ranobelib) ListWorks(ctx context.Context, userId int64) ([]model.Work, error) {
	log.Printf("Getting bookmarks of user %v\n", userId)

	var works []model.Work
	err := r.withPage(ctx, func(p Page) error {
		if err := r.applyCookies(ctx, p); err != nil {
			return err
		}
		var err error
		works, err = r.listWorks(p, userId)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	return works, nil
}

func (r *Ranobelib) applyCookies(ctx context.Context, p Page) error {
	if r.cookies == nil {
		return nil
	}
	cookies, err := r.cookies.Cookies(ctx, SiteKey)
	if err != nil {
		return fmt.Errorf("failed to load cookies: %w", err)
	}
	if len(cookies) == 0 {
		return nil
	}
	if err := p.SetCookies(cookies); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

func (r *Ranobelib) listWorks(p Page, userId int64) ([]model.Work, error) {
	bookmarksUrl := fmt.Sprintf("%s/user/%d?folder=all", r.baseURL, userId)
	if err := p.Navigate(bookmarksUrl, r.navigationTimeout); err != nil {
		return nil, err
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks page: %w", err)
	}
	return ParseBookmarks(html)
}

// ParseBookmarks extracts the works from a bookmark page. Title and cover are
// read from the same bookmark item so a missing cover leaves only that work
// without one.
func ParseBookmarks(html string) ([]model.Work, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %v", err)
	}

	works := make([]model.Work, 0)
	doc.Find(bookmarkItemSelector).Each(func(i int, item *goquery.Selection) {
		cover := coverFromStyle(item.Find(bookmarkCoverSelector).First().AttrOr("style", ""))
		item.Find(bookmarkNameSelector).Each(func(j int, name *goquery.Selection) {
			works = append(works, model.Work{
				Title: strings.TrimSpace(name.Contents().First().Text()),
				Href:  workHref(name.AttrOr("href", "")),
				Cover: cover,
			})
		})
	})
	return works, nil
}

func workHref(href string) string {
	href, _, _ = strings.Cut(href, "?")
	return strings.TrimPrefix(href, "/")
}

// coverFromStyle pulls the url out of `background-image: url("...")`.
func coverFromStyle(style string) string {
	style = strings.NewReplacer(`"`, "", `'`, "").Replace(style)
	matches := backgroundURLRegexp.FindStringSubmatch(style)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}
