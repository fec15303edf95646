package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"ranobelib-downloader/model"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	email TEXT PRIMARY KEY,
	site TEXT NOT NULL,
	identifier INTEGER NOT NULL DEFAULT 0,
	cookies TEXT NOT NULL DEFAULT '[]',
	ranobe_list TEXT NOT NULL DEFAULT '[]',
	logged_in_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_site_login ON users(site, logged_in_at);
`

// Store keeps logged in users together with their session cookies and
// bookmark lists.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases alive between calls
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveUser records a login of user, replacing any earlier record of the same
// email.
func (s *Store) SaveUser(ctx context.Context, site string, user *model.User) error {
	cookies, err := json.Marshal(nonNil(user.Cookies))
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}
	works, err := json.Marshal(nonNil(user.RanobeList))
	if err != nil {
		return fmt.Errorf("failed to marshal ranobe list: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (email, site, identifier, cookies, ranobe_list, logged_in_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			site = excluded.site,
			identifier = excluded.identifier,
			cookies = excluded.cookies,
			ranobe_list = excluded.ranobe_list,
			logged_in_at = excluded.logged_in_at`,
		user.Email, site, user.Identifier, string(cookies), string(works), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// SaveRanobeList replaces the bookmarks of an existing user. It does not
// change who counts as the latest login.
func (s *Store) SaveRanobeList(ctx context.Context, email string, works []model.Work) error {
	data, err := json.Marshal(nonNil(works))
	if err != nil {
		return fmt.Errorf("failed to marshal ranobe list: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET ranobe_list = ? WHERE email = ?`,
		string(data), email)
	if err != nil {
		return fmt.Errorf("failed to save ranobe list: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save ranobe list: user %v not found", email)
	}
	return nil
}

// User returns nil when nobody with that email has logged in.
func (s *Store) User(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT email, identifier, cookies, ranobe_list FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// LatestUser returns the user of site who logged in most recently, or nil.
func (s *Store) LatestUser(ctx context.Context, site string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT email, identifier, cookies, ranobe_list FROM users WHERE site = ? ORDER BY logged_in_at DESC, rowid DESC LIMIT 1`, site)
	return scanUser(row)
}

// Cookies returns the session cookies of the latest user of site.
func (s *Store) Cookies(ctx context.Context, site string) ([]model.Cookie, error) {
	user, err := s.LatestUser(ctx, site)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.Cookies, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		user    model.User
		cookies string
		works   string
	)
	err := row.Scan(&user.Email, &user.Identifier, &cookies, &works)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if err := json.Unmarshal([]byte(cookies), &user.Cookies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cookies: %w", err)
	}
	if err := json.Unmarshal([]byte(works), &user.RanobeList); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranobe list: %w", err)
	}
	return &user, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
