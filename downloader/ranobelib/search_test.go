package ranobelib

import (
	"context"
	"ranobelib-downloader/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	p := newFakePage()
	p.body = ` [{"id":1,"rus_name":"Тест"}] `
	r, _, _ := newTestRanobelib(p)

	result, err := r.Search(context.Background(), "тест книга", model.SearchManga)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":1,"rus_name":"Тест"}]`, string(result))
	require.Equal(t, []string{"https://ranobelib.test/search?type=manga&q=%D1%82%D0%B5%D1%81%D1%82+%D0%BA%D0%BD%D0%B8%D0%B3%D0%B0"}, p.navigations)
	require.Equal(t, 1, p.closed)
}

func TestSearch_NotJSON(t *testing.T) {
	p := newFakePage()
	p.body = "no content"
	r, _, _ := newTestRanobelib(p)

	_, err := r.Search(context.Background(), "x", model.SearchUser)
	require.Error(t, err)
	require.Equal(t, 1, p.closed)
}

func TestSearch_UnknownKind(t *testing.T) {
	r, launcher, _ := newTestRanobelib(newFakePage())
	_, err := r.Search(context.Background(), "x", model.SearchKind("team"))
	require.ErrorIs(t, err, ErrUnknownSearchKind)
	require.Equal(t, 0, launcher.launches)
}
