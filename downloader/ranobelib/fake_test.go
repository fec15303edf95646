package ranobelib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ranobelib-downloader/model"
	"strings"
	"time"
)

// fakePage serves scripted markup instead of driving a browser. When frames
// is set, HTML returns the frame matching the number of scrolls so far.
type fakePage struct {
	pages    map[string]string
	failURLs map[string]error
	failSels map[string]error

	frames        []string
	innerHeight   float64
	scrollHeights []float64
	htmlErrAt     int
	scrolls       int

	afterSubmit string
	body        string
	cookies     []model.Cookie

	current     string
	navigations []string
	navTimeouts []time.Duration
	actions     []string
	setCookies  []model.Cookie
	viewport    [2]int64
	closed      int
}

func newFakePage() *fakePage {
	return &fakePage{
		pages:     make(map[string]string),
		failURLs:  make(map[string]error),
		failSels:  make(map[string]error),
		htmlErrAt: -1,
	}
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	p.navigations = append(p.navigations, url)
	p.navTimeouts = append(p.navTimeouts, timeout)
	if err := p.failURLs[url]; err != nil {
		return err
	}
	p.current = p.pages[url]
	return nil
}

func (p *fakePage) SetViewport(width, height int64) error {
	p.viewport = [2]int64{width, height}
	return nil
}

func (p *fakePage) act(name, sel string) error {
	p.actions = append(p.actions, name+" "+sel)
	return p.failSels[sel]
}

func (p *fakePage) Click(sel string) error {
	return p.act("click", sel)
}

func (p *fakePage) WaitVisible(sel string) error {
	return p.act("wait", sel)
}

func (p *fakePage) SendKeys(sel, text string) error {
	return p.act("type", sel)
}

func (p *fakePage) Submit(sel string) error {
	if err := p.act("submit", sel); err != nil {
		return err
	}
	p.current = p.afterSubmit
	return nil
}

func (p *fakePage) HTML() (string, error) {
	if len(p.frames) == 0 {
		return p.current, nil
	}
	if p.scrolls == p.htmlErrAt {
		return "", errors.New("target closed")
	}
	return p.frames[min(p.scrolls, len(p.frames)-1)], nil
}

func (p *fakePage) scrollHeight() float64 {
	if len(p.scrollHeights) == 0 {
		return 0
	}
	return p.scrollHeights[min(p.scrolls, len(p.scrollHeights)-1)]
}

func (p *fakePage) Evaluate(script string, res any) error {
	var value any
	switch {
	case script == viewportMetricsScript:
		value = viewportMetrics{InnerHeight: p.innerHeight, ScrollHeight: p.scrollHeight()}
	case strings.HasPrefix(script, "window.scrollBy"):
		p.scrolls++
		value = float64(p.scrolls) * p.innerHeight / 2
	case script == scrollHeightScript:
		value = p.scrollHeight()
	case script == bodyTextScript:
		value = p.body
	default:
		return fmt.Errorf("unexpected script %q", script)
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, res)
}

func (p *fakePage) Cookies() ([]model.Cookie, error) {
	return p.cookies, nil
}

func (p *fakePage) SetCookies(cookies []model.Cookie) error {
	p.setCookies = append(p.setCookies, cookies...)
	return nil
}

func (p *fakePage) Close() error {
	p.closed++
	return nil
}

type fakeLauncher struct {
	page     *fakePage
	err      error
	launches int
}

func (l *fakeLauncher) Launch(ctx context.Context) (Page, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}

type fakeCookieStore struct {
	cookies []model.Cookie
	err     error
	sites   []string
}

func (s *fakeCookieStore) Cookies(ctx context.Context, site string) ([]model.Cookie, error) {
	s.sites = append(s.sites, site)
	return s.cookies, s.err
}

// newTestRanobelib returns a client whose scroll waits only count.
func newTestRanobelib(p *fakePage) (*Ranobelib, *fakeLauncher, *[]time.Duration) {
	launcher := &fakeLauncher{page: p}
	r := New("https://ranobelib.test/", launcher)
	waits := &[]time.Duration{}
	r.SetWait(func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	})
	return r, launcher, waits
}

func chapterItem(title, href, author, date string) string {
	return fmt.Sprintf(`<div class="vue-recycle-scroller__item-view"><div class="media-chapter">
<div class="media-chapter__icon"></div>
<div class="media-chapter__body">
<div class="media-chapter__name"><a href="%s">%s</a></div>
<div class="media-chapter__username">%s</div>
<div class="media-chapter__date">%s</div>
</div></div></div>`, href, title, author, date)
}

func htmlPage(items ...string) string {
	return "<html><body>" + strings.Join(items, "\n") + "</body></html>"
}
