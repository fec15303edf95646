package utils

import (
	"ranobelib-downloader/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLink(t *testing.T) {
	cases := []struct {
		link    string
		volume  string
		chapter string
	}{
		{"ranobe/v1/c2", "1", "2"},
		{"/12345-some-title/v3/c15.5", "3", "15.5"},
		{"ranobe/v10/c200?bid=7", "10", "200"},
		{"ranobe/1/c2", model.VolumeNotFound, "2"},
		{"ranobe/v1/2", "1", model.ChapterNotFound},
		{"ranobe/v/c", model.VolumeNotFound, model.ChapterNotFound},
		{"ranobe/v1/", "1", model.ChapterNotFound},
		{"c7", model.VolumeNotFound, "7"},
		{"", model.LinkUndefined, model.LinkUndefined},
	}
	for _, c := range cases {
		volume, chapter := ParseLink(c.link)
		require.Equal(t, c.volume, volume, c.link)
		require.Equal(t, c.chapter, chapter, c.link)
	}
}

func TestChapterRangeOf(t *testing.T) {
	require.Equal(t, model.ChapterRange{Start: "2", End: "9"}, ChapterRangeOf([]string{"a/v1/c2", "a/v1/c9"}))
	require.Equal(t, model.ChapterRange{Start: "2", End: "9"}, ChapterRangeOf([]string{"a/v1/c9", "a/v1/c2"}))
	require.Equal(t, model.ChapterRange{Start: "2", End: "10"}, ChapterRangeOf([]string{"a/v1/c10", "a/v1/c5", "a/v1/c2"}))
	require.Equal(t, model.ChapterRange{Start: "4", End: "4"}, ChapterRangeOf([]string{"a/v1/c4"}))
	require.Equal(t, model.ChapterRange{Start: model.LinkUndefined, End: model.LinkUndefined}, ChapterRangeOf(nil))
}
