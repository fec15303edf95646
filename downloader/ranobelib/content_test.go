package ranobelib

import (
	"context"
	"errors"
	"ranobelib-downloader/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func readerPage(text string) string {
	return `<html><body><div class="reader-container container container_center">` + text + `</div></body></html>`
}

func TestFetchContent_SkipsFailedChapter(t *testing.T) {
	p := newFakePage()
	p.pages["https://ranobelib.test/ranobe/v1/c1"] = readerPage("<p>one</p>")
	p.failURLs["https://ranobelib.test/ranobe/v1/c2"] = errors.New("timeout")
	p.pages["https://ranobelib.test/ranobe/v2/c3"] = readerPage("<p>three</p>")
	r, launcher, _ := newTestRanobelib(p)

	var progressed []string
	batch, err := r.FetchContentReport(context.Background(), []string{"ranobe/v1/c1", "ranobe/v1/c2", "ranobe/v2/c3"}, func(href string, err error) {
		progressed = append(progressed, href)
	})
	require.NoError(t, err)
	require.Equal(t, []model.ReaderContent{
		{Title: "Volume: 1. Chapter: 1", Href: "ranobe/v1/c1", Volume: "1", Chapter: "1", TextContent: "<p>one</p>"},
		{Title: "Volume: 2. Chapter: 3", Href: "ranobe/v2/c3", Volume: "2", Chapter: "3", TextContent: "<p>three</p>"},
	}, batch.Items)
	require.Equal(t, []string{"ranobe/v1/c2"}, batch.Failed)
	require.False(t, batch.Complete())
	require.Equal(t, []string{"ranobe/v1/c1", "ranobe/v1/c2", "ranobe/v2/c3"}, progressed)

	require.Equal(t, 1, launcher.launches)
	require.Equal(t, 1, p.closed)
}

func TestFetchContent_MissingReader(t *testing.T) {
	p := newFakePage()
	p.pages["https://ranobelib.test/ranobe/v1/c1"] = "<html><body><p>maintenance</p></body></html>"
	r, _, _ := newTestRanobelib(p)

	contents, err := r.FetchContent(context.Background(), []string{"/ranobe/v1/c1"})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.Equal(t, "", contents[0].TextContent)
	require.Equal(t, "1", contents[0].Chapter)
}

func TestFetchContent_NoHrefsReturnsEmpty(t *testing.T) {
	r, launcher, _ := newTestRanobelib(newFakePage())
	contents, err := r.FetchContent(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, contents)
	require.Empty(t, contents)

	batch, err := r.FetchContentReport(context.Background(), []string{}, nil)
	require.NoError(t, err)
	require.True(t, batch.Complete())
	require.Empty(t, batch.Items)
	require.Equal(t, 0, launcher.launches)
}

func TestFetchContent_LaunchFailure(t *testing.T) {
	r, launcher, _ := newTestRanobelib(newFakePage())
	launcher.err = errors.New("chrome not found")
	_, err := r.FetchContent(context.Background(), []string{"ranobe/v1/c1"})
	require.ErrorIs(t, err, launcher.err)
}

func TestFetchContent_CancelledContext(t *testing.T) {
	p := newFakePage()
	r, _, _ := newTestRanobelib(p)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.FetchContent(ctx, []string{"ranobe/v1/c1"})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, p.navigations)
	require.Equal(t, 1, p.closed)
}

func TestReaderMarkup(t *testing.T) {
	text, err := ReaderMarkup(readerPage(`<p>a<br/>b</p>`))
	require.NoError(t, err)
	require.Equal(t, `<p>a<br/>b</p>`, text)
}
