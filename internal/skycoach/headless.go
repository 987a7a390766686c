package skycoach

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/lukman83/boostgg-scrap/internal/dom"
)

// PageSession is one rendered product page under headless control. It owns
// the browser it launched; Close releases everything.
type PageSession struct {
	page    *rod.Page
	cleanup func()
}

// OpenPage launches a browser, navigates to pageURL and waits for the Vue
// app to finish its initial render.
func OpenPage(ctx context.Context, pageURL, launcherURL string) (*PageSession, error) {
	var l *launcher.Launcher
	if launcherURL != "" {
		l = launcher.MustNewManaged(launcherURL)
	} else {
		l = launcher.New().Headless(true).Logger(io.Discard)
	}
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	timedPage := page.Timeout(15 * time.Second)
	if err := timedPage.WaitStable(time.Second); err == nil {
		_ = timedPage.WaitDOMStable(2*time.Second, 0.1)
	}

	return &PageSession{
		page: page,
		cleanup: func() {
			page.Close()
			browser.Close()
			l.Cleanup()
		},
	}, nil
}

// Root returns the live document as an interactive node tree.
func (s *PageSession) Root() dom.Node {
	return dom.FromPage(s.page)
}

// HTML returns the current rendered markup, suitable for a frozen re-parse.
func (s *PageSession) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("get page HTML: %w", err)
	}
	return html, nil
}

func (s *PageSession) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}
