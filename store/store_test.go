package store

import (
	"context"
	"ranobelib-downloader/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) *Store {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestStore_SaveAndLoadUser(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	user := &model.User{
		Email:      "reader@mail.test",
		Identifier: 42,
		RanobeList: []model.Work{{Title: "First", Href: "first", Cover: "https://cover.test/1.jpg"}},
		Cookies:    []model.Cookie{{Name: "XSRF-TOKEN", Value: "t", Domain: ".ranobelib.test", Path: "/", Expires: 1.7e9, Secure: true}},
	}
	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", user))

	loaded, err := s.User(ctx, "reader@mail.test")
	require.NoError(t, err)
	require.Equal(t, user, loaded)

	missing, err := s.User(ctx, "nobody@mail.test")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStore_LatestUserAndCookies(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	cookies, err := s.Cookies(ctx, "RANOBELIBME")
	require.NoError(t, err)
	require.Empty(t, cookies)

	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "a@mail.test", Cookies: []model.Cookie{{Name: "a"}}}))
	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "b@mail.test", Cookies: []model.Cookie{{Name: "b"}}}))
	require.NoError(t, s.SaveUser(ctx, "OTHER", &model.User{Email: "c@mail.test", Cookies: []model.Cookie{{Name: "c"}}}))

	latest, err := s.LatestUser(ctx, "RANOBELIBME")
	require.NoError(t, err)
	require.Equal(t, "b@mail.test", latest.Email)

	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "a@mail.test", Cookies: []model.Cookie{{Name: "a2"}}}))
	cookies, err = s.Cookies(ctx, "RANOBELIBME")
	require.NoError(t, err)
	require.Equal(t, []model.Cookie{{Name: "a2"}}, cookies)
}

func TestStore_SaveRanobeList(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "a@mail.test", Identifier: 1}))
	works := []model.Work{{Title: "W", Href: "w"}}
	require.NoError(t, s.SaveRanobeList(ctx, "a@mail.test", works))

	user, err := s.User(ctx, "a@mail.test")
	require.NoError(t, err)
	require.Equal(t, works, user.RanobeList)
	require.Equal(t, []model.Cookie{}, user.Cookies)

	require.Error(t, s.SaveRanobeList(ctx, "missing@mail.test", works))
}

func TestStore_LatestUserWithinOneSecond(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	steps := []time.Duration{0, 300 * time.Millisecond, 500 * time.Millisecond, 550 * time.Millisecond}
	emails := []string{"a@mail.test", "b@mail.test", "c@mail.test", "d@mail.test"}
	for i, email := range emails {
		at := base.Add(steps[i])
		s.now = func() time.Time { return at }
		require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: email, Cookies: []model.Cookie{{Name: email}}}))

		latest, err := s.LatestUser(ctx, "RANOBELIBME")
		require.NoError(t, err)
		require.Equal(t, email, latest.Email)
	}

	cookies, err := s.Cookies(ctx, "RANOBELIBME")
	require.NoError(t, err)
	require.Equal(t, []model.Cookie{{Name: "d@mail.test"}}, cookies)
}

func TestStore_SaveRanobeListKeepsLatestLogin(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "old@mail.test"}))
	require.NoError(t, s.SaveUser(ctx, "RANOBELIBME", &model.User{Email: "new@mail.test"}))
	require.NoError(t, s.SaveRanobeList(ctx, "old@mail.test", []model.Work{{Title: "W", Href: "w"}}))

	latest, err := s.LatestUser(ctx, "RANOBELIBME")
	require.NoError(t, err)
	require.Equal(t, "new@mail.test", latest.Email)
}
