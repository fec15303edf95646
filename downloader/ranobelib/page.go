package ranobelib

import (
	"context"
	"ranobelib-downloader/model"
	"time"
)

// Page is a single browser tab bound to its own browser process.
type Page interface {
	// Navigate loads url and waits until the network is almost idle.
	// A zero timeout waits indefinitely.
	Navigate(url string, timeout time.Duration) error
	SetViewport(width, height int64) error
	Click(sel string) error
	WaitVisible(sel string) error
	SendKeys(sel, text string) error
	// Submit clicks sel and waits for the navigation it triggers to settle.
	Submit(sel string) error
	HTML() (string, error)
	Evaluate(script string, res any) error
	Cookies() ([]model.Cookie, error)
	SetCookies(cookies []model.Cookie) error
	Close() error
}

type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}
