package ranobelib

import (
	"context"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://ranobelib.me"
	SiteKey        = "RANOBELIBME"

	defaultNavigationTimeout = 30 * time.Second
	defaultScrollDelay       = time.Second
)

// CookieStore hands out the session cookies saved for a site.
type CookieStore interface {
	Cookies(ctx context.Context, site string) ([]model.Cookie, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Ranobelib struct {
	baseURL  string
	launcher Launcher
	cookies  CookieStore

	navigationTimeout time.Duration
	scrollDelay       time.Duration
	wait              WaitFunc
}

var _ model.Service = (*Ranobelib)(nil)

func New(baseURL string, launcher Launcher) *Ranobelib {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Ranobelib{
		baseURL:           strings.TrimSuffix(baseURL, "/"),
		launcher:          launcher,
		navigationTimeout: defaultNavigationTimeout,
		scrollDelay:       defaultScrollDelay,
		wait:              sleep,
	}
}

func (r *Ranobelib) SetCookieStore(store CookieStore) {
	r.cookies = store
}

func (r *Ranobelib) SetNavigationTimeout(timeout time.Duration) {
	r.navigationTimeout = timeout
}

// SetScrollDelay sets how long the chapter list is given to re-render after
// each scroll step.
func (r *Ranobelib) SetScrollDelay(delay time.Duration) {
	r.scrollDelay = delay
}

func (r *Ranobelib) SetWait(wait WaitFunc) {
	r.wait = wait
}

func (r *Ranobelib) BaseURL() string {
	return r.baseURL
}

// withPage launches a browser for the duration of fn and always closes it.
func (r *Ranobelib) withPage(ctx context.Context, fn func(p Page) error) error {
	p, err := r.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("Failed to close browser: %v\n", err)
		}
	}()
	return fn(p)
}

func (r *Ranobelib) url(path string) string {
	return r.baseURL + "/" + strings.TrimPrefix(path, "/")
}
