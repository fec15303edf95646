package ranobelib

import (
	"context"
	"errors"
	"ranobelib-downloader/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func bookmarkItem(cover, href, title string) string {
	coverHtml := ""
	if cover != "" {
		coverHtml = `<div class="bookmark-item__cover" style='background-image: url("` + cover + `")'></div>`
	}
	return `<div class="bookmark-item">` + coverHtml +
		`<div class="bookmark-item__info"><a class="bookmark-item__name" href="` + href + `">` + title + `<span class="badge">new</span></a></div></div>`
}

func bookmarksPage(items ...string) string {
	html := `<html><body><div class="bookmark__list paper">`
	for _, item := range items {
		html += item
	}
	return html + `</div></body></html>`
}

func TestParseBookmarks(t *testing.T) {
	html := bookmarksPage(
		bookmarkItem("https://cover.test/1.jpg", "/first-ranobe?section=info", " First "),
		bookmarkItem("https://cover.test/2.jpg", "/second-ranobe", "Second"),
	)

	works, err := ParseBookmarks(html)
	require.NoError(t, err)
	require.Equal(t, []model.Work{
		{Title: "First", Href: "first-ranobe", Cover: "https://cover.test/1.jpg"},
		{Title: "Second", Href: "second-ranobe", Cover: "https://cover.test/2.jpg"},
	}, works)
}

func TestParseBookmarks_MissingCover(t *testing.T) {
	html := bookmarksPage(
		bookmarkItem("", "/first-ranobe", "First"),
		bookmarkItem("https://cover.test/2.jpg", "/second-ranobe", "Second"),
	)

	works, err := ParseBookmarks(html)
	require.NoError(t, err)
	require.Len(t, works, 2)
	require.Equal(t, "", works[0].Cover)
	require.Equal(t, "https://cover.test/2.jpg", works[1].Cover)
}

func TestParseBookmarks_OutsideList(t *testing.T) {
	html := `<html><body>` + bookmarkItem("https://cover.test/1.jpg", "/x", "X") + `</body></html>`
	works, err := ParseBookmarks(html)
	require.NoError(t, err)
	require.Empty(t, works)
}

func TestCoverFromStyle(t *testing.T) {
	require.Equal(t, "https://cover.test/a.jpg", coverFromStyle(`background-image: url("https://cover.test/a.jpg");`))
	require.Equal(t, "https://cover.test/a.jpg", coverFromStyle(`background-image: url('https://cover.test/a.jpg')`))
	require.Equal(t, "", coverFromStyle(`color: red`))
	require.Equal(t, "", coverFromStyle(""))
}

func TestListWorks_UsesStoredCookies(t *testing.T) {
	p := newFakePage()
	p.pages["https://ranobelib.test/user/42?folder=all"] = bookmarksPage(bookmarkItem("https://cover.test/1.jpg", "/first", "First"))
	r, launcher, _ := newTestRanobelib(p)
	store := &fakeCookieStore{cookies: []model.Cookie{{Name: "XSRF-TOKEN", Value: "t", Domain: "ranobelib.test"}}}
	r.SetCookieStore(store)

	works, err := r.ListWorks(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, []model.Work{{Title: "First", Href: "first", Cover: "https://cover.test/1.jpg"}}, works)
	require.Equal(t, store.cookies, p.setCookies)
	require.Equal(t, []string{SiteKey}, store.sites)
	require.Equal(t, 1, launcher.launches)
	require.Equal(t, 1, p.closed)
}

func TestListWorks_CookieStoreFailure(t *testing.T) {
	p := newFakePage()
	r, _, _ := newTestRanobelib(p)
	storeErr := errors.New("database is locked")
	r.SetCookieStore(&fakeCookieStore{err: storeErr})

	_, err := r.ListWorks(context.Background(), 42)
	require.ErrorIs(t, err, storeErr)
	require.Empty(t, p.navigations)
	require.Equal(t, 1, p.closed)
}
