package ranobelib

import (
	"context"
	"fmt"
	"log"
	"ranobelib-downloader/model"
	"ranobelib-downloader/utils"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var stealthScripts = []string{
	"Object.defineProperty(navigator, 'webdriver', { get: () => undefined });",
	"window.chrome = window.chrome || {}; window.chrome.runtime = {};",
	"Object.defineProperty(navigator, 'languages', { get: () => ['ru-RU', 'ru', 'en-US', 'en'] });",
	"Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });",
}

// ChromeLauncher starts a fresh headless Chrome with a stealth profile for
// every Launch call.
type ChromeLauncher struct {
	Headless      bool
	ExecPath      string
	UserAgent     string
	ActionTimeout time.Duration
	Debug         bool
}

func (l *ChromeLauncher) Launch(ctx context.Context) (Page, error) {
	userAgent := l.UserAgent
	if userAgent == "" {
		userAgent = utils.DefaultUserAgent
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(userAgent),
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	var ctxOpts []chromedp.ContextOption
	if l.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(log.Printf))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	p := &chromePage{
		ctx:           browserCtx,
		actionTimeout: l.ActionTimeout,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(applyStealthProfile))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	return p, nil
}

func applyStealthProfile(ctx context.Context) error {
	if err := emulation.SetAutomationOverride(false).Do(ctx); err != nil {
		return err
	}
	for _, script := range stealthScripts {
		if _, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx); err != nil {
			return err
		}
	}
	return page.SetLifecycleEventsEnabled(true).Do(ctx)
}

type chromePage struct {
	ctx           context.Context
	cancel        context.CancelFunc
	actionTimeout time.Duration
	closeOnce     sync.Once
}

func (p *chromePage) withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(p.ctx, timeout)
	}
	return context.WithCancel(p.ctx)
}

func (p *chromePage) run(actions ...chromedp.Action) error {
	ctx, cancel := p.withTimeout(p.actionTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// lifecycleWatcher follows one document load of the main frame. Events of
// other frames (ads, embedded players) are ignored. An empty frame accepts
// every frame.
type lifecycleWatcher struct {
	mu      sync.Mutex
	frame   cdp.FrameID
	started bool
}

// observe reports whether e finishes the load: networkAlmostIdle (no more
// than two open connections for 500ms) after the frame's init.
func (w *lifecycleWatcher) observe(e *page.EventLifecycleEvent) bool {
	if w.frame != "" && e.FrameID != w.frame {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch e.Name {
	case "init":
		w.started = true
	case "networkAlmostIdle":
		return w.started
	}
	return false
}

// mainFrameID is the id of the tab's top-level frame, which Chrome gives the
// same value as the page target.
func mainFrameID(ctx context.Context) cdp.FrameID {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return ""
	}
	return cdp.FrameID(c.Target.TargetID)
}

func listenNetworkIdle(ctx context.Context) <-chan struct{} {
	idle := make(chan struct{})
	watcher := &lifecycleWatcher{frame: mainFrameID(ctx)}
	var once sync.Once
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		if watcher.observe(e) {
			once.Do(func() { close(idle) })
		}
	})
	return idle
}

func (p *chromePage) waitSettled(ctx context.Context, action chromedp.Action) error {
	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	idle := listenNetworkIdle(listenCtx)

	if err := chromedp.Run(ctx, action); err != nil {
		return err
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *chromePage) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := p.withTimeout(timeout)
	defer cancel()
	if err := p.waitSettled(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %v: %w", url, err)
	}
	return nil
}

func (p *chromePage) Submit(sel string) error {
	ctx, cancel := p.withTimeout(p.actionTimeout)
	defer cancel()
	if err := p.waitSettled(ctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to submit %v: %w", sel, err)
	}
	return nil
}

func (p *chromePage) SetViewport(width, height int64) error {
	return p.run(chromedp.EmulateViewport(width, height))
}

func (p *chromePage) Click(sel string) error {
	return p.run(chromedp.Click(sel, chromedp.ByQuery))
}

func (p *chromePage) WaitVisible(sel string) error {
	return p.run(chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (p *chromePage) SendKeys(sel, text string) error {
	return p.run(chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

func (p *chromePage) HTML() (string, error) {
	var html string
	err := p.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *chromePage) Evaluate(script string, res any) error {
	return p.run(chromedp.Evaluate(script, res))
}

func (p *chromePage) Cookies() ([]model.Cookie, error) {
	var cookies []*network.Cookie
	err := p.run(chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	result := make([]model.Cookie, 0, len(cookies))
	for _, c := range cookies {
		result = append(result, model.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return result, nil
}

func (p *chromePage) SetCookies(cookies []model.Cookie) error {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: network.CookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param.Expires = &expires
		}
		params = append(params, param)
	}
	return p.run(chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
}

func (p *chromePage) Close() error {
	p.closeOnce.Do(p.cancel)
	return nil
}
