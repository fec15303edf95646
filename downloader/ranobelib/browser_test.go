package ranobelib

import (
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/require"
)

func lifecycle(frame, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{FrameID: cdp.FrameID(frame), Name: name}
}

func TestLifecycleWatcher_IgnoresChildFrames(t *testing.T) {
	w := &lifecycleWatcher{frame: "main"}

	require.False(t, w.observe(lifecycle("main", "networkAlmostIdle")), "idle of the previous document")
	require.False(t, w.observe(lifecycle("ad-frame", "init")))
	require.False(t, w.observe(lifecycle("ad-frame", "networkAlmostIdle")))
	require.False(t, w.observe(lifecycle("main", "init")))
	require.False(t, w.observe(lifecycle("player", "networkAlmostIdle")))
	require.False(t, w.observe(lifecycle("main", "DOMContentLoaded")))
	require.True(t, w.observe(lifecycle("main", "networkAlmostIdle")))
}

func TestLifecycleWatcher_UnknownMainFrame(t *testing.T) {
	w := &lifecycleWatcher{}

	require.False(t, w.observe(lifecycle("any", "networkAlmostIdle")))
	require.False(t, w.observe(lifecycle("any", "init")))
	require.True(t, w.observe(lifecycle("other", "networkAlmostIdle")))
}
