package model

import (
	"context"
	"encoding/json"
)

type SearchKind string

const (
	SearchManga SearchKind = "manga"
	SearchUser  SearchKind = "user"
)

func (k SearchKind) Valid() bool {
	return k == SearchManga || k == SearchUser
}

type Service interface {
	Login(ctx context.Context, credentials Credentials) (*User, error)
	ListWorks(ctx context.Context, userId int64) ([]Work, error)
	ListChapters(ctx context.Context, href string) ([]Chapter, error)
	FetchContentReport(ctx context.Context, hrefs []string, progress func(href string, err error)) (*ContentBatch, error)
	Search(ctx context.Context, query string, kind SearchKind) (json.RawMessage, error)
}
